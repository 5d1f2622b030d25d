// Package problem defines the decision problem document: named criteria with
// weights and named alternatives with one score per criterion. It is the input
// format shared by the CLI and the HTTP API.
package problem

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoCriteria     = errors.New("problem: at least one criterion is required")
	ErrNoAlternatives = errors.New("problem: at least one alternative is required")
	ErrUnnamed        = errors.New("problem: name is required")
	ErrDuplicateName  = errors.New("problem: duplicate name")
	ErrScoreCount     = errors.New("problem: score count does not match criteria count")
)

// Criterion is one column of the decision matrix.
type Criterion struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Alternative is one row of the decision matrix.
type Alternative struct {
	Name   string    `yaml:"name" json:"name"`
	Scores []float64 `yaml:"scores" json:"scores"`
}

// Problem is a complete decision problem.
type Problem struct {
	Name         string        `yaml:"name" json:"name"`
	Criteria     []Criterion   `yaml:"criteria" json:"criteria"`
	Alternatives []Alternative `yaml:"alternatives" json:"alternatives"`
}

// Parse decodes a YAML (or JSON) document and validates it.
func Parse(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse problem: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses the problem file at path.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	return Parse(data)
}

// Validate checks the document structure. It does not check numeric values;
// the engine rejects non-finite scores and zero columns.
func (p *Problem) Validate() error {
	if len(p.Criteria) == 0 {
		return ErrNoCriteria
	}
	if len(p.Alternatives) == 0 {
		return ErrNoAlternatives
	}

	seen := make(map[string]struct{}, len(p.Criteria))
	for i, c := range p.Criteria {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("criterion %d: %w", i, ErrUnnamed)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("criterion %q: %w", name, ErrDuplicateName)
		}
		seen[name] = struct{}{}
	}

	seen = make(map[string]struct{}, len(p.Alternatives))
	for i, a := range p.Alternatives {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return fmt.Errorf("alternative %d: %w", i, ErrUnnamed)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("alternative %q: %w", name, ErrDuplicateName)
		}
		seen[name] = struct{}{}
		if len(a.Scores) != len(p.Criteria) {
			return fmt.Errorf("alternative %q has %d scores for %d criteria: %w",
				name, len(a.Scores), len(p.Criteria), ErrScoreCount)
		}
	}
	return nil
}

// Matrix returns a copy of the decision matrix, one row per alternative.
func (p *Problem) Matrix() [][]float64 {
	m := make([][]float64, len(p.Alternatives))
	for i, a := range p.Alternatives {
		m[i] = make([]float64, len(a.Scores))
		copy(m[i], a.Scores)
	}
	return m
}

// Weights returns the criterion weights in column order.
func (p *Problem) Weights() []float64 {
	w := make([]float64, len(p.Criteria))
	for i, c := range p.Criteria {
		w[i] = c.Weight
	}
	return w
}

// CriterionNames returns the criterion names in column order.
func (p *Problem) CriterionNames() []string {
	names := make([]string, len(p.Criteria))
	for i, c := range p.Criteria {
		names[i] = c.Name
	}
	return names
}

// AlternativeNames returns the alternative names in row order.
func (p *Problem) AlternativeNames() []string {
	names := make([]string, len(p.Alternatives))
	for i, a := range p.Alternatives {
		names[i] = a.Name
	}
	return names
}
