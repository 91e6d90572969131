// Project:   perfscan
// File:      internal/rules/loader_test.go
// Purpose:   Tests for the rules loader
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	rs, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}

	if rs == nil {
		t.Fatal("LoadBuiltin() returned nil")
	}

	if len(rs.Rules) == 0 {
		t.Error("LoadBuiltin() returned empty ruleset")
	}

	// The catalog order is the evaluation and tie-break order.
	expectedIDs := []string{
		"string-concat-in-loop",
		"nested-loop",
		"list-membership-in-loop",
		"range-len-iteration",
	}

	if len(rs.Rules) != len(expectedIDs) {
		t.Fatalf("expected %d builtin rules, got %d", len(expectedIDs), len(rs.Rules))
	}

	for i, id := range expectedIDs {
		if rs.Rules[i].ID != id {
			t.Errorf("rule %d: expected %q, got %q", i, id, rs.Rules[i].ID)
		}
	}
}

func TestLoadBuiltin_Severities(t *testing.T) {
	rs, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}

	want := map[string]Severity{
		"string-concat-in-loop":   SeverityHigh,
		"nested-loop":             SeverityMedium,
		"list-membership-in-loop": SeverityMedium,
		"range-len-iteration":     SeverityLow,
	}

	for _, r := range rs.Rules {
		if r.Severity != want[r.ID] {
			t.Errorf("rule %s: expected severity %q, got %q", r.ID, want[r.ID], r.Severity)
		}
		if r.Recommendation == "" {
			t.Errorf("rule %s missing recommendation", r.ID)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test-rules.yaml")

	content := `version: "1.0"
rules:
  - id: sorted-in-loop
    name: Repeated sort in loop
    description: Sorting inside a loop repeats the O(n log n) work every iteration
    severity: medium
    scope: loop-body
    pattern: 'sorted\s*\('
    recommendation: Sort once before the loop
`
	if err := os.WriteFile(testFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	rs, err := LoadFromFile(testFile)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(rs.Rules) != 1 {
		t.Errorf("expected 1 rule, got %d", len(rs.Rules))
	}

	r := rs.Rules[0]
	if r.ID != "sorted-in-loop" {
		t.Errorf("expected ID 'sorted-in-loop', got %q", r.ID)
	}
	if r.Severity != SeverityMedium {
		t.Errorf("expected severity 'medium', got %q", r.Severity)
	}
	if r.Scope != ScopeLoopBody {
		t.Errorf("expected scope 'loop-body', got %q", r.Scope)
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "invalid.yaml")

	content := `this is not: valid: yaml: syntax`
	if err := os.WriteFile(testFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	_, err := LoadFromFile(testFile)
	if err == nil {
		t.Error("LoadFromFile() should fail with invalid YAML")
	}
}

func TestLoadFromFile_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "bad-pattern.yaml")

	content := `version: "1.0"
rules:
  - id: bad-rule
    name: Bad Rule
    pattern: '[invalid'
    severity: high
    recommendation: n/a
`
	if err := os.WriteFile(testFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	_, err := LoadFromFile(testFile)
	if err == nil {
		t.Error("LoadFromFile() should fail with invalid regex pattern")
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{
			name: "valid rule",
			rule: Rule{
				ID:             "test",
				Name:           "Test",
				Pattern:        `test`,
				Severity:       SeverityMedium,
				Recommendation: "do less work",
			},
			wantErr: false,
		},
		{
			name: "missing ID",
			rule: Rule{
				Name:           "Test",
				Pattern:        `test`,
				Recommendation: "do less work",
			},
			wantErr: true,
		},
		{
			name: "missing name",
			rule: Rule{
				ID:             "test",
				Pattern:        `test`,
				Recommendation: "do less work",
			},
			wantErr: true,
		},
		{
			name: "missing pattern",
			rule: Rule{
				ID:             "test",
				Name:           "Test",
				Recommendation: "do less work",
			},
			wantErr: true,
		},
		{
			name: "missing recommendation",
			rule: Rule{
				ID:      "test",
				Name:    "Test",
				Pattern: `test`,
			},
			wantErr: true,
		},
		{
			name: "invalid pattern",
			rule: Rule{
				ID:             "test",
				Name:           "Test",
				Pattern:        `[invalid`,
				Recommendation: "do less work",
			},
			wantErr: true,
		},
		{
			name: "invalid severity",
			rule: Rule{
				ID:             "test",
				Name:           "Test",
				Pattern:        `test`,
				Severity:       "critical",
				Recommendation: "do less work",
			},
			wantErr: true,
		},
		{
			name: "invalid scope",
			rule: Rule{
				ID:             "test",
				Name:           "Test",
				Pattern:        `test`,
				Scope:          "function-body",
				Recommendation: "do less work",
			},
			wantErr: true,
		},
		{
			name: "unknown check",
			rule: Rule{
				ID:             "test",
				Name:           "Test",
				Pattern:        `test`,
				Check:          "made-up",
				Recommendation: "do less work",
			},
			wantErr: true,
		},
		{
			name: "default severity and scope",
			rule: Rule{
				ID:             "test",
				Name:           "Test",
				Pattern:        `test`,
				Recommendation: "do less work",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRule(&tt.rule)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRule_Defaults(t *testing.T) {
	r := Rule{
		ID:             "test",
		Name:           "Test",
		Pattern:        `test`,
		Recommendation: "do less work",
	}

	if err := validateRule(&r); err != nil {
		t.Fatalf("validateRule() error = %v", err)
	}

	if r.Severity != SeverityMedium {
		t.Errorf("expected default severity medium, got %q", r.Severity)
	}
	if r.Scope != ScopeAny {
		t.Errorf("expected default scope any, got %q", r.Scope)
	}
}

func TestMerge(t *testing.T) {
	rs1 := &RuleSet{
		Rules: []Rule{
			{ID: "rule1", Name: "Rule 1", Pattern: "pattern1"},
			{ID: "rule2", Name: "Rule 2", Pattern: "pattern2"},
		},
	}

	rs2 := &RuleSet{
		Rules: []Rule{
			{ID: "rule2", Name: "Rule 2 Override", Pattern: "pattern2-new"},
			{ID: "rule3", Name: "Rule 3", Pattern: "pattern3"},
		},
	}

	merged := Merge(rs1, rs2)

	if len(merged.Rules) != 3 {
		t.Errorf("expected 3 rules, got %d", len(merged.Rules))
	}

	// Check rule2 was overridden
	for _, r := range merged.Rules {
		if r.ID == "rule2" {
			if r.Name != "Rule 2 Override" {
				t.Errorf("rule2 should be overridden, got name %q", r.Name)
			}
		}
	}
}

func TestMerge_NilSets(t *testing.T) {
	rs1 := &RuleSet{
		Rules: []Rule{
			{ID: "rule1", Name: "Rule 1", Pattern: "pattern1"},
		},
	}

	merged := Merge(nil, rs1, nil)

	if len(merged.Rules) != 1 {
		t.Errorf("expected 1 rule, got %d", len(merged.Rules))
	}
}
