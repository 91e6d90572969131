// Project:   perfscan
// File:      internal/rules/types.go
// Purpose:   Rule type definitions
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package rules

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Scope restricts where a rule's pattern is evaluated relative to the
// loop structure the scanner tracks.
type Scope string

const (
	// ScopeAny evaluates the pattern on every line.
	ScopeAny Scope = "any"
	// ScopeLoopBody evaluates the pattern only on lines lexically inside
	// a loop body (and not themselves loop headers).
	ScopeLoopBody Scope = "loop-body"
	// ScopeLoopHeader evaluates the pattern only on loop header lines.
	ScopeLoopHeader Scope = "loop-header"
)

// Check names a structural verification implemented in the scanner that
// runs after the pattern matches. Regular expressions alone cannot
// express these conditions (RE2 has no backreferences, and two of the
// checks depend on loop context rather than line text).
type Check string

const (
	// CheckNone accepts the pattern match as-is.
	CheckNone Check = ""
	// CheckSelfAppend requires the assignment target to reappear as the
	// first operand of the right-hand side (x = x + ...).
	CheckSelfAppend Check = "self-append"
	// CheckNestedLoop requires at least one enclosing loop to already be
	// open when the matched loop header is reached.
	CheckNestedLoop Check = "nested-loop"
	// CheckIndexedRange requires the loop body to index the sequence
	// named in range(len(...)) by the loop variable.
	CheckIndexedRange Check = "indexed-range"
)

type Rule struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Severity        Severity `yaml:"severity"`
	Scope           Scope    `yaml:"scope,omitempty"`
	Pattern         string   `yaml:"pattern"`
	NegativePattern string   `yaml:"negative_pattern,omitempty"`
	Check           Check    `yaml:"check,omitempty"`
	Recommendation  string   `yaml:"recommendation"`
	Examples        Examples `yaml:"examples,omitempty"`
	Tags            []string `yaml:"tags,omitempty"`
	References      []string `yaml:"references,omitempty"`
}

type Examples struct {
	Bad  string `yaml:"bad,omitempty"`
	Good string `yaml:"good,omitempty"`
}

type RuleSet struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}
