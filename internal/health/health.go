// Project:   perfscan
// File:      internal/health/health.go
// Purpose:   Health check suite definitions and loading
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package health

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinSuites embed.FS

type Kind string

const (
	// KindCommand runs an external tool and passes on exit code 0.
	KindCommand Kind = "command"
	// KindHTTP issues a GET request and passes on a status below 400.
	KindHTTP Kind = "http"
)

type Check struct {
	Name    string `yaml:"name"`
	Kind    Kind   `yaml:"kind"`
	Command string `yaml:"command,omitempty"`
	URL     string `yaml:"url,omitempty"`
	// TimeoutSeconds overrides the runner's per-check timeout.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

type Suite struct {
	Version string  `yaml:"version"`
	Checks  []Check `yaml:"checks"`
}

func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file %s: %w", path, err)
	}

	return parseSuite(data, path)
}

// DefaultSuite is the builtin tool-availability suite (git, python,
// database clients).
func DefaultSuite() (*Suite, error) {
	data, err := builtinSuites.ReadFile("builtin/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading builtin suite: %w", err)
	}

	return parseSuite(data, "builtin/default.yaml")
}

func parseSuite(data []byte, source string) (*Suite, error) {
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing YAML from %s: %w", source, err)
	}

	for i := range suite.Checks {
		if err := validateCheck(&suite.Checks[i]); err != nil {
			return nil, fmt.Errorf("invalid check %d in %s: %w", i, source, err)
		}
	}

	return &suite, nil
}

func validateCheck(c *Check) error {
	if c.Name == "" {
		return fmt.Errorf("check missing name")
	}

	switch c.Kind {
	case KindCommand:
		if c.Command == "" {
			return fmt.Errorf("check %s missing command", c.Name)
		}
	case KindHTTP:
		if c.URL == "" {
			return fmt.Errorf("check %s missing url", c.Name)
		}
	default:
		return fmt.Errorf("check %s has invalid kind %q", c.Name, c.Kind)
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("check %s has negative timeout", c.Name)
	}

	return nil
}
