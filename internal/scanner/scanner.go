// Project:   perfscan
// File:      internal/scanner/scanner.go
// Purpose:   Scan source text for performance anti-patterns
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package scanner

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/perfscan-io/perfscan/internal/rules"
)

// InputError reports input that cannot be interpreted as text. It is
// the only error Scan returns; no partial result accompanies it.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "input is not decodable text: " + e.Reason
}

// Finding is one detected anti-pattern occurrence. Line is 1-based.
type Finding struct {
	Line           int
	RuleID         string
	Severity       rules.Severity
	Snippet        string
	Recommendation string
}

type SeverityCounts struct {
	High   int
	Medium int
	Low    int
}

// Result aggregates all findings for one scanned input, ordered by
// ascending line number with ties in rule table order.
type Result struct {
	Findings []Finding
	Counts   SeverityCounts
}

type Scanner struct {
	rules    []rules.Rule
	compiled []*compiledRule
}

type compiledRule struct {
	rule     *rules.Rule
	pattern  *regexp.Regexp
	negative *regexp.Regexp
}

// Loop headers in the scanned language: for/while statements ending in
// a colon (trailing comments allowed).
var loopHeaderRe = regexp.MustCompile(`^\s*(?:for|while)\b.*:\s*(?:#.*)?$`)

func New(ruleSet *rules.RuleSet) (*Scanner, error) {
	s := &Scanner{
		rules: ruleSet.Rules,
	}

	// Pre-compile all patterns. The slice preserves table order, which
	// fixes both evaluation order and same-line tie-breaking.
	for i := range s.rules {
		r := &s.rules[i]
		cr := &compiledRule{rule: r}

		var err error
		cr.pattern, err = regexp.Compile(r.Pattern)
		if err != nil {
			return nil, err
		}

		if r.NegativePattern != "" {
			cr.negative, err = regexp.Compile(r.NegativePattern)
			if err != nil {
				return nil, err
			}
		}

		s.compiled = append(s.compiled, cr)
	}

	return s, nil
}

// openLoop is one entry in the loop nesting stack: the indentation
// column of a loop header whose body is still open.
type openLoop struct {
	indent int
	line   int
}

// rangeCandidate is a range(len(seq)) header waiting for evidence that
// its body indexes seq by the loop variable. The finding is emitted at
// the header line only once that evidence appears.
type rangeCandidate struct {
	rule    *rules.Rule
	line    int
	indent  int
	indexRe *regexp.Regexp
	done    bool
}

// Scan evaluates every rule against every line of source and returns
// the ordered findings. It is pure and deterministic: no I/O, no
// execution of the scanned code, identical input yields an identical
// result.
//
// Loop nesting is tracked with an indentation stack, not a parse.
// Single-line loop bodies, inconsistent indentation, and statements
// split across lines can make the depth counter under- or over-count;
// that is a known limitation of the line-based approach.
func (s *Scanner) Scan(source string) (*Result, error) {
	if !utf8.ValidString(source) {
		return nil, &InputError{Reason: "invalid UTF-8"}
	}
	if strings.ContainsRune(source, 0) {
		return nil, &InputError{Reason: "NUL byte in input"}
	}

	result := &Result{}
	if source == "" {
		return result, nil
	}

	var stack []openLoop
	var pending []*rangeCandidate
	var deferred []Finding

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lineNum := i + 1

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			// Blank and comment lines do not close blocks.
			continue
		}

		indent := indentWidth(line)

		// Dedent closes every loop whose body this line is not part of.
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		pending = retainOpen(pending, indent)

		depth := len(stack)
		isHeader := loopHeaderRe.MatchString(line)

		// Body lines may satisfy a pending range(len(...)) candidate.
		for _, c := range pending {
			if !c.done && c.indexRe.MatchString(line) {
				c.done = true
				deferred = append(deferred, Finding{
					Line:           c.line,
					RuleID:         c.rule.ID,
					Severity:       c.rule.Severity,
					Snippet:        strings.TrimSpace(lines[c.line-1]),
					Recommendation: c.rule.Recommendation,
				})
			}
		}

		for _, cr := range s.compiled {
			switch cr.rule.Scope {
			case rules.ScopeLoopBody:
				if depth == 0 || isHeader {
					continue
				}
			case rules.ScopeLoopHeader:
				if !isHeader {
					continue
				}
			}

			m := cr.pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			if cr.negative != nil && cr.negative.MatchString(line) {
				continue
			}

			switch cr.rule.Check {
			case rules.CheckSelfAppend:
				// Group 1 is the assignment target; group 2, when
				// present, is the first right-hand operand. RE2 has no
				// backreferences, so the equality lives here.
				if m[2] != "" && m[1] != m[2] {
					continue
				}

			case rules.CheckNestedLoop:
				if depth == 0 {
					continue
				}

			case rules.CheckIndexedRange:
				// Group 1 is the loop variable, group 2 the sequence.
				// Defer until the body indexes the sequence by the
				// loop variable.
				pending = append(pending, &rangeCandidate{
					rule:    cr.rule,
					line:    lineNum,
					indent:  indent,
					indexRe: indexExprRe(m[2], m[1]),
				})
				continue
			}

			result.Findings = append(result.Findings, Finding{
				Line:           lineNum,
				RuleID:         cr.rule.ID,
				Severity:       cr.rule.Severity,
				Snippet:        trimmed,
				Recommendation: cr.rule.Recommendation,
			})
		}

		if isHeader {
			stack = append(stack, openLoop{indent: indent, line: lineNum})
		}
	}

	// Deferred findings surface out of line order; the stable sort puts
	// them back while keeping same-line findings in rule table order
	// (the deferring rule is last in the builtin table, and deferred
	// entries are appended after the directly emitted ones).
	sort.SliceStable(deferred, func(a, b int) bool { return deferred[a].Line < deferred[b].Line })
	result.Findings = append(result.Findings, deferred...)
	sort.SliceStable(result.Findings, func(a, b int) bool {
		return result.Findings[a].Line < result.Findings[b].Line
	})

	for _, f := range result.Findings {
		switch f.Severity {
		case rules.SeverityHigh:
			result.Counts.High++
		case rules.SeverityMedium:
			result.Counts.Medium++
		case rules.SeverityLow:
			result.Counts.Low++
		}
	}

	return result, nil
}

// indentWidth measures leading whitespace with tabs advancing to the
// next multiple of 8, matching the usual tab stop convention.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 8 - width%8
		default:
			return width
		}
	}
	return width
}

// retainOpen drops candidates whose loop has been closed by a dedent
// to or past the header's indentation.
func retainOpen(pending []*rangeCandidate, indent int) []*rangeCandidate {
	kept := pending[:0]
	for _, c := range pending {
		if indent > c.indent {
			kept = append(kept, c)
		}
	}
	return kept
}

func indexExprRe(seq, loopVar string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(seq) + `\s*\[\s*` + regexp.QuoteMeta(loopVar) + `\s*\]`)
}

func FilterBySeverity(findings []Finding, minSeverity rules.Severity) []Finding {
	severityOrder := map[rules.Severity]int{
		rules.SeverityLow:    0,
		rules.SeverityMedium: 1,
		rules.SeverityHigh:   2,
	}

	minLevel := severityOrder[minSeverity]
	var filtered []Finding

	for _, f := range findings {
		if severityOrder[f.Severity] >= minLevel {
			filtered = append(filtered, f)
		}
	}

	return filtered
}

func HasHighSeverity(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == rules.SeverityHigh {
			return true
		}
	}
	return false
}
