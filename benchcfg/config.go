// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcfg loads benchmark matrix configurations.
//
// A matrix config is a YAML document naming the benchmark binary and a
// list of parameter suites:
//
//	bench: ./build/bench
//	suites:
//	  - notes: MPMC-vary-threads
//	    repeats: 3
//	    producers: [1, 2, 4, 8]
//	    consumers: [1, 2, 4, 8]
//	    duration-ms: 10000
//
// Every suite key except the reserved "repeats" and "notes" is a
// benchmark parameter. A parameter's value is either a scalar or a
// list of scalars; scalars stand for one-element lists. The cross
// product of all parameter values defines the suite's combinations,
// and each combination runs repeats times.
//
// Parameter order is significant: combinations are enumerated with the
// first declared parameter varying slowest, and the runner passes
// flags in declaration order. Suite decoding therefore preserves the
// YAML document order rather than using Go's unordered maps.
package benchcfg

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Config is a parsed benchmark matrix.
type Config struct {
	// Bench is the path of the benchmark binary to invoke.
	Bench string `yaml:"bench"`
	// Suites are the parameter suites to run, in order. An empty
	// list is valid and runs nothing.
	Suites []Suite `yaml:"suites"`
}

// A Suite is one entry of the matrix's suite list.
type Suite struct {
	// Notes labels every run of the suite. Rows written by the
	// benchmark binary carry it in the "notes" column, and result
	// queries select on it. Empty means unlabeled.
	Notes string
	// Repeats is how many times each combination runs. Suites
	// decoded from YAML default to 1; non-positive values mean the
	// suite runs nothing.
	Repeats int
	// Params are the benchmark parameters in declaration order.
	Params []Param
}

// A Param is one benchmark parameter and its candidate values, which
// keep their YAML scalar spelling.
type Param struct {
	Name   string
	Values []string
}

// Load reads and parses the matrix config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

// Parse parses a matrix config document. The bench path and the
// suites list are both mandatory; an empty suites list is valid and
// runs nothing.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Bench == "" {
		return nil, errors.New("missing bench path")
	}
	if cfg.Suites == nil {
		return nil, errors.New("missing suites list")
	}
	return &cfg, nil
}

// UnmarshalYAML decodes a suite mapping, keeping parameter order.
func (s *Suite) UnmarshalYAML(n *yaml.Node) error {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: suite must be a mapping", n.Line)
	}
	s.Repeats = 1
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolve(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return errors.Errorf("line %d: suite key must be a scalar", k.Line)
		}
		if seen[k.Value] {
			return errors.Errorf("line %d: duplicate suite key %q", k.Line, k.Value)
		}
		seen[k.Value] = true
		switch k.Value {
		case "repeats":
			if err := v.Decode(&s.Repeats); err != nil {
				return errors.Errorf("line %d: repeats must be an integer", v.Line)
			}
		case "notes":
			if v.Kind != yaml.ScalarNode {
				return errors.Errorf("line %d: notes must be a scalar", v.Line)
			}
			s.Notes = v.Value
		default:
			vals, err := scalarList(v)
			if err != nil {
				return errors.Wrapf(err, "parameter %q", k.Value)
			}
			s.Params = append(s.Params, Param{Name: k.Value, Values: vals})
		}
	}
	return nil
}

// scalarList flattens a parameter value node: a scalar becomes a
// one-element list, a sequence must hold only scalars.
func scalarList(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, errors.Errorf("line %d: value must not be null", n.Line)
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		vals := make([]string, 0, len(n.Content))
		for _, e := range n.Content {
			e = resolve(e)
			if e.Kind != yaml.ScalarNode || e.Tag == "!!null" {
				return nil, errors.Errorf("line %d: list values must be scalars", e.Line)
			}
			vals = append(vals, e.Value)
		}
		return vals, nil
	}
	return nil, errors.Errorf("line %d: value must be a scalar or a list", n.Line)
}

// resolve follows alias nodes so anchored parameter blocks work.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
