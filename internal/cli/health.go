// Project:   perfscan
// File:      internal/cli/health.go
// Purpose:   Health check subcommand
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/perfscan-io/perfscan/internal/health"
)

var healthConfig string

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run environment health checks",
		Long: `health runs a suite of environment checks (external tool
availability and HTTP endpoint probes) and prints a pass/fail summary.

Without --config the builtin suite is used, which probes git, python3
and the common database clients.

Examples:
  # Run the builtin suite
  perfscan health

  # Run a custom suite
  perfscan health --config checks.yaml

Exit Codes:
  0 - All checks passed
  1 - At least one check failed`,
		RunE:          runHealth,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&healthConfig, "config", "", "Path to a custom check suite YAML file")

	return cmd
}

func runHealth(cmd *cobra.Command, args []string) error {
	suite, err := loadSuite()
	if err != nil {
		return fmt.Errorf("loading check suite: %w", err)
	}

	runner := health.NewRunner(logrus.StandardLogger())

	summary, err := runner.Run(cmd.Context(), suite)
	if err != nil {
		return fmt.Errorf("running checks: %w", err)
	}

	for _, result := range summary.Results {
		if result.Passed {
			fmt.Printf("%s %s: PASS", color.GreenString("✓"), result.Check.Name)
		} else {
			fmt.Printf("%s %s: FAIL", color.RedString("✗"), result.Check.Name)
		}
		if result.Detail != "" {
			fmt.Printf("\n  └─ %s", result.Detail)
		}
		fmt.Println()
	}

	fmt.Printf("\n%d passed, %d failed\n", summary.Passed, summary.Failed)

	if summary.Failed > 0 {
		os.Exit(1)
	}

	return nil
}

func loadSuite() (*health.Suite, error) {
	if healthConfig != "" {
		return health.LoadSuite(healthConfig)
	}
	return health.DefaultSuite()
}
