package harness

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Apurer/petstore-api-harness/internal/platform/config"
	"github.com/Apurer/petstore-api-harness/internal/scenarios"
)

// Report renders human-readable harness output.
type Report struct {
	out  io.Writer
	pass *color.Color
	fail *color.Color
	skip *color.Color
}

// NewReport writes to out; noColor strips ANSI sequences.
func NewReport(out io.Writer, noColor bool) *Report {
	r := &Report{
		out:  out,
		pass: color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		skip: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{r.pass, r.fail, r.skip} {
			c.DisableColor()
		}
	} else {
		for _, c := range []*color.Color{r.pass, r.fail, r.skip} {
			c.EnableColor()
		}
	}
	return r
}

// Filters describes which scenarios the filters will skip, if any.
func (r *Report) Filters(filters scenarios.RegexFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	fmt.Fprintln(r.out, "Some scenarios will be skipped based on the filter criteria for this run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(r.out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(r.out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(r.out)
}

// Results prints one row per scenario followed by the failure details.
func (r *Report) Results(results scenarios.Results) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(table.Row{"Scenario", "Feature", "Severity", "Result", "Duration"})
	for _, t := range results.Tests {
		duration := ""
		if !t.Skipped {
			duration = t.Duration.Round(time.Millisecond).String()
		}
		tw.AppendRow(table.Row{t.Scenario.Name, t.Scenario.Feature, t.Scenario.Severity, r.status(t), duration})
	}
	tw.Render()
	fmt.Fprintln(r.out, r.summary(results))

	if results.OK() {
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.fail.Sprint("FAILED SCENARIOS"))
	for _, f := range results.Failures {
		fmt.Fprintf(r.out, "[%s]: %s\n", f.Scenario.Name, indent(f.Err.Error()))
	}
}

// Catalogue lists scenarios with their descriptive tags.
func (r *Report) Catalogue(catalogue []scenarios.Scenario, filter scenarios.Filter) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(table.Row{"Scenario", "Feature", "Story", "Severity", "Description"})
	for _, s := range catalogue {
		if filter != nil && !filter(s.Name) {
			continue
		}
		tw.AppendRow(table.Row{s.Name, s.Feature, s.Story, s.Severity, s.Description})
	}
	tw.Render()
}

// Settings prints the effective configuration.
func (r *Report) Settings(p *config.Provider) {
	source := p.Source()
	if source == "" {
		source = "(defaults)"
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(table.Row{"Key", "Value"})
	tw.AppendRow(table.Row{config.KeyBaseURL, p.BaseURL()})
	tw.AppendRow(table.Row{config.KeyTimeout, p.TimeoutMillis()})
	tw.AppendRow(table.Row{config.KeyLogEnabled, p.LogEnabled()})
	tw.AppendRow(table.Row{"source", source})
	tw.Render()
}

func (r *Report) status(t scenarios.Result) string {
	switch {
	case t.Skipped:
		return r.skip.Sprint("SKIP")
	case t.Err != nil:
		return r.fail.Sprint("FAIL")
	default:
		return r.pass.Sprint("PASS")
	}
}

func (r *Report) summary(results scenarios.Results) string {
	return fmt.Sprintf("%s, %s, %s",
		r.pass.Sprintf("%d passed", results.Passed()),
		r.fail.Sprintf("%d failed", len(results.Failures)),
		r.skip.Sprintf("%d skipped", results.Skipped()),
	)
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
