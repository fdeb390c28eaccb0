// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package sampler implements the xstats sampling runtime: sessions bind
// pluggable stat sources to pluggable sinks under a shared timing policy,
// and a polling driver walks a process-wide session registry, invoking the
// sampling engine on whichever sessions are due.
package sampler
