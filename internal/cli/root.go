// Project:   perfscan
// File:      internal/cli/root.go
// Purpose:   Root CLI command definition
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/perfscan-io/perfscan/internal/output"
	"github.com/perfscan-io/perfscan/internal/rules"
	"github.com/perfscan-io/perfscan/internal/scanner"
)

var (
	rulesFile   string
	severity    string
	format      string
	logLevel    string
	showVersion bool

	appVersion   string
	appCommit    string
	appBuildTime string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perfscan [files...]",
		Short: "Scan Python source for performance anti-patterns",
		Long: `perfscan scans Python source files for common performance
anti-patterns (quadratic string building, nested loops, list membership
tests in loops, index-based iteration) and reports each occurrence with
a line number, a severity, and a fix recommendation.

Examples:
  # Scan a file
  perfscan app.py

  # Scan multiple files
  perfscan src/*.py

  # Only report medium and high severity findings
  perfscan --severity medium app.py

  # Add custom rules on top of the builtin catalog
  perfscan --rules extra-rules.yaml app.py

  # Output as JSON for CI integration
  perfscan --format json app.py

  # Run the environment health checks
  perfscan health

Exit Codes:
  0 - No high severity findings
  1 - At least one high severity finding, or an error occurred`,
		RunE:          runScan,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.Flags().StringVarP(&rulesFile, "rules", "c", "", "Path to custom rules YAML file")
	cmd.Flags().StringVarP(&severity, "severity", "s", "low", "Minimum severity to report: high, medium, low")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	}

	cmd.AddCommand(newHealthCmd())

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("perfscan %s\n", appVersion)
		fmt.Printf("  commit:  %s\n", appCommit)
		fmt.Printf("  built:   %s\n", appBuildTime)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("no files specified. Use 'perfscan --help' for usage")
	}

	var minSeverity rules.Severity
	switch severity {
	case "high":
		minSeverity = rules.SeverityHigh
	case "medium":
		minSeverity = rules.SeverityMedium
	case "low":
		minSeverity = rules.SeverityLow
	default:
		return fmt.Errorf("invalid severity %q: must be high, medium, or low", severity)
	}

	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", format)
	}

	for _, file := range args {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", file)
		}
	}

	ruleSet, err := loadRules()
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	s, err := scanner.New(ruleSet)
	if err != nil {
		return fmt.Errorf("creating scanner: %w", err)
	}

	var reports []output.FileReport
	var anyHigh bool

	for _, file := range args {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		result, err := s.Scan(string(data))
		if err != nil {
			var inputErr *scanner.InputError
			if errors.As(err, &inputErr) {
				return fmt.Errorf("%s: %w", file, err)
			}
			return fmt.Errorf("scanning %s: %w", file, err)
		}

		logrus.WithFields(logrus.Fields{
			"file":     file,
			"findings": len(result.Findings),
		}).Debug("scanned file")

		// The exit policy looks at the unfiltered result so a severity
		// filter cannot mask a high finding.
		if scanner.HasHighSeverity(result.Findings) {
			anyHigh = true
		}

		reports = append(reports, output.FileReport{
			Path:   file,
			Result: filterResult(result, minSeverity),
		})
	}

	formatter := output.New(os.Stdout)

	switch format {
	case "json":
		if err := formatter.JSON(reports); err != nil {
			return fmt.Errorf("outputting JSON: %w", err)
		}
	default:
		formatter.Text(reports)
	}

	if anyHigh {
		os.Exit(1)
	}

	return nil
}

func filterResult(result *scanner.Result, minSeverity rules.Severity) *scanner.Result {
	filtered := &scanner.Result{
		Findings: scanner.FilterBySeverity(result.Findings, minSeverity),
	}
	for _, f := range filtered.Findings {
		switch f.Severity {
		case rules.SeverityHigh:
			filtered.Counts.High++
		case rules.SeverityMedium:
			filtered.Counts.Medium++
		case rules.SeverityLow:
			filtered.Counts.Low++
		}
	}
	return filtered
}

func loadRules() (*rules.RuleSet, error) {
	builtin, err := rules.LoadBuiltin()
	if err != nil {
		return nil, fmt.Errorf("loading builtin rules: %w", err)
	}

	if rulesFile != "" {
		custom, err := rules.LoadFromFile(rulesFile)
		if err != nil {
			return nil, fmt.Errorf("loading custom rules: %w", err)
		}
		return rules.Merge(builtin, custom), nil
	}

	return builtin, nil
}

func Execute(version, commit, buildTime string) error {
	appVersion = version
	appCommit = commit
	appBuildTime = buildTime

	return newRootCmd().Execute()
}
