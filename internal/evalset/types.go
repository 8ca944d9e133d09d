// Package evalset defines the declarative eval case model and its loader.
// A case names one fixture file plus the outcome the review agent is
// expected to produce for it: either a clean bill of health, or findings
// at a known severity mentioning known keywords.
package evalset

import (
	"fmt"
	"path/filepath"
)

// Severity is a finding level the agent is expected to emit.
type Severity string

const (
	SeverityMustFix   Severity = "must-fix"
	SeverityShouldFix Severity = "should-fix"
)

// Kind selects which instruction the harness sends to the agent for a case.
type Kind string

const (
	KindReview  Kind = "review"
	KindConvert Kind = "convert"
)

// Case is one eval case: a fixture plus its expected grading outcome.
// Cases are immutable once loaded.
type Case struct {
	Fixture     string   `yaml:"fixture" json:"fixture"`
	Kind        Kind     `yaml:"kind,omitempty" json:"kind,omitempty"`
	ExpectClean bool     `yaml:"expect_clean" json:"expect_clean"`
	Severity    Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`

	// FixturePath is the fixture resolved against the harness root.
	// Populated by Load; existence is not checked until invocation.
	FixturePath string `yaml:"-" json:"-"`
}

// Name returns the fixture's base name, used as the case identifier in
// reports and logs.
func (c Case) Name() string {
	return filepath.Base(c.Fixture)
}

// Validate enforces the expect_clean/severity invariant: clean cases carry
// no expectations, finding cases carry a known severity and at least one
// keyword (a finding case with no keywords can never meaningfully fail).
func (c Case) Validate() error {
	if c.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	switch c.Kind {
	case "", KindReview, KindConvert:
	default:
		return fmt.Errorf("fixture %s: unknown kind %q (want review or convert)", c.Fixture, c.Kind)
	}
	if c.ExpectClean {
		if c.Severity != "" {
			return fmt.Errorf("fixture %s: expect_clean cases must not set severity (got %q)", c.Fixture, c.Severity)
		}
		if len(c.Keywords) > 0 {
			return fmt.Errorf("fixture %s: expect_clean cases must not set keywords", c.Fixture)
		}
		return nil
	}
	switch c.Severity {
	case SeverityMustFix, SeverityShouldFix:
	case "":
		return fmt.Errorf("fixture %s: finding cases require a severity (must-fix or should-fix)", c.Fixture)
	default:
		return fmt.Errorf("fixture %s: unknown severity %q (want must-fix or should-fix)", c.Fixture, c.Severity)
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("fixture %s: finding cases require at least one keyword", c.Fixture)
	}
	for i, kw := range c.Keywords {
		if kw == "" {
			return fmt.Errorf("fixture %s: keyword %d is empty", c.Fixture, i)
		}
	}
	return nil
}
