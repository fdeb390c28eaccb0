// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package config implements configuration file parsing and validation for
// the sampler runtime: the set of sessions a process should create at
// startup, and their timing policy.
package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SessionConfig mirrors sampler.SessionConfig in a serializable form, so a
// process can describe its sessions declaratively instead of constructing
// them in code.
type SessionConfig struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	IntervalMS uint64 `json:"interval_ms" yaml:"interval_ms"`
	DurationMS uint64 `json:"duration_ms" yaml:"duration_ms"`
}

// Config is the top-level configuration document for a sampler process.
type Config struct {
	Sessions []SessionConfig `json:"sessions" yaml:"sessions"`
}

// ParseJSON parses a JSON configuration document and validates it.
func ParseJSON(raw []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseYAML parses a YAML configuration document and validates it. YAML is
// accepted as an ambient convenience; the document shape is identical to
// the JSON form.
func ParseYAML(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Sessions))
	for i, s := range c.Sessions {
		if s.Name == "" {
			continue // sampler auto-generates a name for unnamed sessions
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate session name %q at index %d", s.Name, i)
		}
		seen[s.Name] = true
	}
	return nil
}
