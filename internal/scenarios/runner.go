package scenarios

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"runtime/debug"
	"strings"
	"time"
)

// Filter decides whether a scenario runs.
type Filter func(name string) bool

// RegexFilters selects scenarios by name.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter runs a scenario when it matches any MustMatch pattern (or none are
// set) and no MustNotMatch pattern.
func (r RegexFilters) AsFilter(name string) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

// RegexList is a set of patterns; it satisfies pflag.Value.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set compiles and appends a pattern.
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// Type names the flag value type.
func (r *RegexList) Type() string { return "regex" }

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario Scenario
	Err      error
	Skipped  bool
	Duration time.Duration
}

// Results collects every outcome of a run.
type Results struct {
	Tests    []Result
	Failures []Result
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Passed counts scenarios that ran and succeeded.
func (r Results) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if !t.Skipped && t.Err == nil {
			n++
		}
	}
	return n
}

// Skipped counts scenarios excluded by the filter.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

// Runner executes scenarios one after another.
type Runner struct {
	clients Clients
	logger  *slog.Logger
	filter  Filter
}

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithFilter restricts which scenarios run.
func WithFilter(f Filter) RunnerOption {
	return func(r *Runner) {
		r.filter = f
	}
}

// WithLogger sets the logger handed to each scenario Env.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner builds a runner over clients.
func NewRunner(clients Clients, opts ...RunnerOption) *Runner {
	r := &Runner{clients: clients}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Run executes each scenario in order. Cleanups run after every scenario,
// including ones that failed or panicked.
func (r *Runner) Run(ctx context.Context, catalogue []Scenario) Results {
	var results Results
	for _, s := range catalogue {
		if r.filter != nil && !r.filter(s.Name) {
			results.Tests = append(results.Tests, Result{Scenario: s, Skipped: true})
			continue
		}
		result := r.runOne(ctx, s)
		results.Tests = append(results.Tests, result)
		if result.Err != nil {
			results.Failures = append(results.Failures, result)
		}
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, s Scenario) (result Result) {
	env := NewEnv(r.clients, r.logger.With(slog.String("scenario", s.Name)))
	env.Logger.InfoContext(ctx, "scenario started", slog.String("feature", s.Feature), slog.String("story", s.Story))
	start := time.Now()
	result.Scenario = s
	defer func() {
		if p := recover(); p != nil {
			result.Err = fmt.Errorf("unexpected panic in scenario: %+v\n%s", p, debug.Stack())
		}
		env.Cleanup(ctx)
		result.Duration = time.Since(start)
		if result.Err != nil {
			env.Logger.ErrorContext(ctx, "scenario failed", slog.String("error", result.Err.Error()))
			return
		}
		env.Logger.InfoContext(ctx, "scenario passed", slog.Duration("duration", result.Duration))
	}()
	if s.Run == nil {
		result.Err = fmt.Errorf("scenario %s has no body", s.Name)
		return result
	}
	result.Err = s.Run(ctx, env)
	return result
}
