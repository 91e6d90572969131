// Project:   perfscan
// File:      internal/health/runner.go
// Purpose:   Execute health check suites
// Language:  Go
//
// License:   Apache-2.0
// Copyright: (c) 2026 PerfScan Authors

package health

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"mvdan.cc/sh/v3/shell"
)

const defaultCheckTimeout = 5 * time.Second

type Result struct {
	Check   Check
	Passed  bool
	Detail  string
	Elapsed time.Duration
}

type Summary struct {
	Results []Result
	Passed  int
	Failed  int
}

type Runner struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
	timeout time.Duration
}

func NewRunner(logger *logrus.Logger) *Runner {
	return &Runner{
		client: &http.Client{Timeout: 10 * time.Second},
		// Endpoint checks are paced so a large suite does not hammer
		// the targets.
		limiter: rate.NewLimiter(rate.Limit(4), 1),
		logger:  logger,
		timeout: defaultCheckTimeout,
	}
}

// Run executes every check in the suite sequentially and returns the
// per-check results with pass/fail totals. A failing check is a
// result, not an error; Run only errors when the context is done.
func (r *Runner) Run(ctx context.Context, suite *Suite) (*Summary, error) {
	summary := &Summary{}

	for _, check := range suite.Checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var result Result
		switch check.Kind {
		case KindHTTP:
			result = r.runHTTP(ctx, check)
		default:
			result = r.runCommand(ctx, check)
		}

		r.logger.WithFields(logrus.Fields{
			"check":   check.Name,
			"passed":  result.Passed,
			"elapsed": result.Elapsed,
		}).Debug("health check finished")

		summary.Results = append(summary.Results, result)
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	return summary, nil
}

func (r *Runner) runCommand(ctx context.Context, check Check) Result {
	start := time.Now()

	fields, err := shell.Fields(check.Command, nil)
	if err != nil || len(fields) == 0 {
		return Result{
			Check:   check,
			Detail:  fmt.Sprintf("invalid command %q: %v", check.Command, err),
			Elapsed: time.Since(start),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.checkTimeout(check))
	defer cancel()

	out, err := exec.CommandContext(ctx, fields[0], fields[1:]...).CombinedOutput()
	elapsed := time.Since(start)

	if err != nil {
		return Result{
			Check:   check,
			Detail:  err.Error(),
			Elapsed: elapsed,
		}
	}

	return Result{
		Check:   check,
		Passed:  true,
		Detail:  firstLine(string(out)),
		Elapsed: elapsed,
	}
}

func (r *Runner) runHTTP(ctx context.Context, check Check) Result {
	start := time.Now()

	if err := r.limiter.Wait(ctx); err != nil {
		return Result{Check: check, Detail: err.Error(), Elapsed: time.Since(start)}
	}

	ctx, cancel := context.WithTimeout(ctx, r.checkTimeout(check))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, check.URL, nil)
	if err != nil {
		return Result{Check: check, Detail: err.Error(), Elapsed: time.Since(start)}
	}
	req.Header.Set("User-Agent", "perfscan-health")

	resp, err := r.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return Result{Check: check, Detail: err.Error(), Elapsed: elapsed}
	}
	defer resp.Body.Close()

	detail := fmt.Sprintf("HTTP %d in %dms", resp.StatusCode, elapsed.Milliseconds())
	return Result{
		Check:   check,
		Passed:  resp.StatusCode < 400,
		Detail:  detail,
		Elapsed: elapsed,
	}
}

func (r *Runner) checkTimeout(check Check) time.Duration {
	if check.TimeoutSeconds > 0 {
		return time.Duration(check.TimeoutSeconds) * time.Second
	}
	return r.timeout
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
