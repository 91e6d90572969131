// Project:   perfscan
// File:      internal/output/output.go
// Purpose:   Format and display scan results
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/perfscan-io/perfscan/internal/rules"
	"github.com/perfscan-io/perfscan/internal/scanner"
)

// FileReport pairs one scanned file with its result.
type FileReport struct {
	Path   string
	Result *scanner.Result
}

type Formatter struct {
	writer io.Writer
}

var (
	boldPath  = color.New(color.Bold).SprintFunc()
	highColor = color.New(color.FgRed).SprintFunc()
	medColor  = color.New(color.FgYellow).SprintFunc()
	lowColor  = color.New(color.FgBlue).SprintFunc()
)

func New(w io.Writer) *Formatter {
	return &Formatter{writer: w}
}

func (f *Formatter) Text(reports []FileReport) {
	totals := sumCounts(reports)

	if totals == (scanner.SeverityCounts{}) {
		fmt.Fprintln(f.writer, "No performance issues found.")
		return
	}

	for _, r := range reports {
		if len(r.Result.Findings) == 0 {
			continue
		}

		fmt.Fprintf(f.writer, "\n%s\n", boldPath(r.Path))

		for _, finding := range r.Result.Findings {
			fmt.Fprintf(f.writer, "  line %d: [%s] %s — %s\n",
				finding.Line,
				colorSeverity(finding.Severity),
				finding.RuleID,
				finding.Recommendation,
			)
			fmt.Fprintf(f.writer, "    │ %s\n", finding.Snippet)
		}
	}

	fmt.Fprintln(f.writer)
	fmt.Fprintf(f.writer, "high: %d, medium: %d, low: %d\n",
		totals.High, totals.Medium, totals.Low)
}

func (f *Formatter) JSON(reports []FileReport) error {
	type jsonFinding struct {
		Line           int    `json:"line"`
		RuleID         string `json:"rule_id"`
		Severity       string `json:"severity"`
		Snippet        string `json:"snippet"`
		Recommendation string `json:"recommendation"`
	}

	type jsonFile struct {
		File     string        `json:"file"`
		Findings []jsonFinding `json:"findings"`
		High     int           `json:"high"`
		Medium   int           `json:"medium"`
		Low      int           `json:"low"`
	}

	type jsonOutput struct {
		TotalIssues int        `json:"total_issues"`
		High        int        `json:"high"`
		Medium      int        `json:"medium"`
		Low         int        `json:"low"`
		Files       []jsonFile `json:"files"`
	}

	totals := sumCounts(reports)

	out := jsonOutput{
		High:   totals.High,
		Medium: totals.Medium,
		Low:    totals.Low,
		Files:  make([]jsonFile, len(reports)),
	}

	for i, r := range reports {
		jf := jsonFile{
			File:     r.Path,
			Findings: make([]jsonFinding, len(r.Result.Findings)),
			High:     r.Result.Counts.High,
			Medium:   r.Result.Counts.Medium,
			Low:      r.Result.Counts.Low,
		}
		for j, finding := range r.Result.Findings {
			jf.Findings[j] = jsonFinding{
				Line:           finding.Line,
				RuleID:         finding.RuleID,
				Severity:       string(finding.Severity),
				Snippet:        finding.Snippet,
				Recommendation: finding.Recommendation,
			}
		}
		out.Files[i] = jf
		out.TotalIssues += len(r.Result.Findings)
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func colorSeverity(s rules.Severity) string {
	switch s {
	case rules.SeverityHigh:
		return highColor(string(s))
	case rules.SeverityMedium:
		return medColor(string(s))
	case rules.SeverityLow:
		return lowColor(string(s))
	default:
		return string(s)
	}
}

func sumCounts(reports []FileReport) scanner.SeverityCounts {
	var totals scanner.SeverityCounts
	for _, r := range reports {
		totals.High += r.Result.Counts.High
		totals.Medium += r.Result.Counts.Medium
		totals.Low += r.Result.Counts.Low
	}
	return totals
}
