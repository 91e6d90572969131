// Project:   perfscan
// File:      internal/rules/loader.go
// Purpose:   Load rules from YAML files
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package rules

import (
	"embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinRules embed.FS

func LoadFromFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	return parseRuleSet(data, path)
}

func LoadBuiltin() (*RuleSet, error) {
	entries, err := builtinRules.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("reading builtin rules directory: %w", err)
	}

	combined := &RuleSet{
		Version: "1.0",
		Rules:   []Rule{},
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		data, err := builtinRules.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading builtin rule %s: %w", entry.Name(), err)
		}

		rs, err := parseRuleSet(data, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("parsing builtin rule %s: %w", entry.Name(), err)
		}

		combined.Rules = append(combined.Rules, rs.Rules...)
	}

	return combined, nil
}

func parseRuleSet(data []byte, source string) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing YAML from %s: %w", source, err)
	}

	// Validate rules
	for i := range rs.Rules {
		if err := validateRule(&rs.Rules[i]); err != nil {
			return nil, fmt.Errorf("invalid rule %d (%s) in %s: %w", i, rs.Rules[i].ID, source, err)
		}
	}

	return &rs, nil
}

func validateRule(r *Rule) error {
	if r.ID == "" {
		return fmt.Errorf("rule missing ID")
	}

	if r.Name == "" {
		return fmt.Errorf("rule %s missing name", r.ID)
	}

	if r.Pattern == "" {
		return fmt.Errorf("rule %s missing pattern", r.ID)
	}

	// Validate pattern compiles
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %s has invalid pattern: %w", r.ID, err)
	}

	// Validate negative pattern if present
	if r.NegativePattern != "" {
		if _, err := regexp.Compile(r.NegativePattern); err != nil {
			return fmt.Errorf("rule %s has invalid negative_pattern: %w", r.ID, err)
		}
	}

	// Validate severity
	switch r.Severity {
	case SeverityHigh, SeverityMedium, SeverityLow:
		// Valid
	case "":
		r.Severity = SeverityMedium // Default
	default:
		return fmt.Errorf("rule %s has invalid severity %q", r.ID, r.Severity)
	}

	// Validate scope
	switch r.Scope {
	case ScopeAny, ScopeLoopBody, ScopeLoopHeader:
		// Valid
	case "":
		r.Scope = ScopeAny // Default
	default:
		return fmt.Errorf("rule %s has invalid scope %q", r.ID, r.Scope)
	}

	// Validate check
	switch r.Check {
	case CheckNone, CheckNestedLoop:
		// Valid
	case CheckSelfAppend, CheckIndexedRange:
		// These checks read the first two capture groups.
		if re.NumSubexp() < 2 {
			return fmt.Errorf("rule %s check %q needs a pattern with two capture groups", r.ID, r.Check)
		}
	default:
		return fmt.Errorf("rule %s has unknown check %q", r.ID, r.Check)
	}

	if r.Recommendation == "" {
		return fmt.Errorf("rule %s missing recommendation", r.ID)
	}

	return nil
}

func Merge(sets ...*RuleSet) *RuleSet {
	seen := make(map[string]int)
	combined := &RuleSet{
		Version: "1.0",
		Rules:   []Rule{},
	}

	for _, rs := range sets {
		if rs == nil {
			continue
		}
		for i := range rs.Rules {
			rule := &rs.Rules[i]
			if idx, exists := seen[rule.ID]; exists {
				// Override existing rule
				combined.Rules[idx] = *rule
			} else {
				seen[rule.ID] = len(combined.Rules)
				combined.Rules = append(combined.Rules, *rule)
			}
		}
	}

	return combined
}
