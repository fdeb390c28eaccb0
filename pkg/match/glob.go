// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package match implements glob-style name matching for xstats filter
// patterns: '?' matches exactly one character, '*' matches zero or more
// characters, and there is no escape syntax.
package match

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/gobwas/glob"
)

// cacheSize bounds the number of distinct compiled patterns retained across
// the process lifetime. Filter patterns are typically drawn from a small,
// repeated set (stat name prefixes), so a modest bound avoids unbounded
// growth without thrashing on normal workloads.
const cacheSize = 1024

var compiled *lru.Cache[string, glob.Glob]

func init() {
	c, err := lru.New[string, glob.Glob](cacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which cacheSize
		// never is.
		panic(err)
	}
	compiled = c
}

// Pattern is a compiled glob pattern over a single stat name.
type Pattern struct {
	src string
	g   glob.Glob
}

// Compile compiles pattern into a reusable Pattern. An empty pattern matches
// only the empty name.
func Compile(pattern string) (Pattern, error) {
	if g, ok := compiled.Get(pattern); ok {
		return Pattern{src: pattern, g: g}, nil
	}
	// gobwas/glob also treats '\\', '[', ']', '{' and '}' as syntax; escape
	// them so that only '?' and '*' act as metacharacters.
	var quoted strings.Builder
	for _, r := range pattern {
		switch r {
		case '\\', '[', ']', '{', '}':
			quoted.WriteByte('\\')
		}
		quoted.WriteRune(r)
	}
	g, err := glob.Compile(quoted.String())
	if err != nil {
		return Pattern{}, err
	}
	compiled.Add(pattern, g)
	return Pattern{src: pattern, g: g}, nil
}

// String returns the original pattern text.
func (p Pattern) String() string {
	return p.src
}

// Match reports whether name matches the pattern in its entirety.
func (p Pattern) Match(name string) bool {
	if p.g == nil {
		return name == ""
	}
	return p.g.Match(name)
}

// MatchAny reports whether name matches at least one of patterns.
func MatchAny(patterns []Pattern, name string) bool {
	for _, p := range patterns {
		if p.Match(name) {
			return true
		}
	}
	return false
}
