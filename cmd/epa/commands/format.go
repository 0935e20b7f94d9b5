package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/wonny/epaforecast/internal/brain"
	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/s2_quality"
	"github.com/wonny/epaforecast/internal/scheduler"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

var stdout io.Writer = os.Stdout

// PrintHeader prints a formatted command header
func PrintHeader(title string) {
	fmt.Fprintln(stdout)
	PrintDoubleSeparator()
	fmt.Fprintf(stdout, "  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Fprintln(stdout, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Fprintln(stdout, "═══════════════════════════════════════════════════════════")
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(stdout, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(stdout, "❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Fprintf(stdout, "ℹ️  %s\n", message)
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(stdout)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

// PrintChecks renders validation checks as a table
func PrintChecks(report *s2_quality.Report) {
	if report == nil || len(report.Checks) == 0 {
		return
	}
	table := newTable([]string{"Check", "Result", "Detail"})
	for _, c := range report.Checks {
		result := "PASS"
		if !c.Passed {
			result = "FAIL"
		}
		table.Append([]string{c.Name, result, c.Detail})
	}
	table.Render()
}

// PrintModel renders the fitted coefficients
func PrintModel(a *contracts.ModelArtifact) {
	table := newTable([]string{"Feature", "Weight"})
	for i, f := range a.Features {
		table.Append([]string{f, strconv.FormatFloat(a.Weights[i], 'f', 6, 64)})
	}
	table.Append([]string{"(intercept)", strconv.FormatFloat(a.Intercept, 'f', 6, 64)})
	table.Render()

	c := a.Confusion
	fmt.Fprintf(stdout, "  Threshold : %.4f (median passing_epa)\n", a.Threshold)
	fmt.Fprintf(stdout, "  Split     : %d train / %d test\n", a.NTrain, a.NTest)
	fmt.Fprintf(stdout, "  Confusion : TP=%d FP=%d TN=%d FN=%d\n", c.TruePositive, c.FalsePositive, c.TrueNegative, c.FalseNegative)
	fmt.Fprintf(stdout, "  Solver    : %d iterations, converged=%v\n", a.Iterations, a.Converged)
}

// PrintStages renders per-stage results of a pipeline run
func PrintStages(result *brain.RunResult) {
	table := newTable([]string{"Stage", "Status", "Rows", "Duration", "Output"})
	for _, s := range result.Stages {
		status := "OK"
		if !s.Success {
			status = "FAILED"
		}
		table.Append([]string{
			s.Stage.ShortName() + " " + s.Stage.Description(),
			status,
			strconv.Itoa(s.OutputCount),
			(time.Duration(s.Duration) * time.Millisecond).String(),
			s.Output,
		})
	}
	table.Render()
}

// PrintJobStats renders scheduler job statistics
func PrintJobStats(names []string, stats map[string]scheduler.JobStats, next map[string]time.Time) {
	table := newTable([]string{"Job", "Schedule", "Next Run", "Runs", "Success Rate"})
	for _, name := range names {
		st := stats[name]
		nextRun := "-"
		if t, ok := next[name]; ok && !t.IsZero() {
			nextRun = t.Format(time.RFC3339)
		}
		table.Append([]string{
			name,
			st.Schedule,
			nextRun,
			strconv.Itoa(st.TotalRuns),
			fmt.Sprintf("%.0f%%", st.SuccessRate*100),
		})
	}
	table.Render()
}

// PrintSeasons renders available seasons, marking configured ones
func PrintSeasons(available []int, configured []int) {
	want := make(map[int]bool, len(configured))
	for _, s := range configured {
		want[s] = true
	}
	table := newTable([]string{"Season", "Configured"})
	for _, s := range available {
		mark := ""
		if want[s] {
			mark = "✓"
		}
		table.Append([]string{strconv.Itoa(s), mark})
	}
	table.Render()
}
