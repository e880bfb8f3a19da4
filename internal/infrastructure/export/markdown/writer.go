package markdown

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// Writer renders an analysis result as a Markdown report.
type Writer struct{}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Write(result *domain.AnalysisResult, out io.Writer) error {
	var b strings.Builder

	b.WriteString("# Process Analysis Report\n\n")
	writeSummary(&b, result)
	writeBreakdown(&b, "Swimlane Breakdown", "Swimlane", result.Aggregates.BySwimlane)
	writeBreakdown(&b, "Owner Breakdown", "Owner", result.Aggregates.ByOwner)
	writeBreakdown(&b, "Documentation Status", "Status", result.Aggregates.ByDocStatus)
	writeItems(&b, "Opportunities & Improvement Ideas", result.Opportunities, false)
	writeItems(&b, "Issues & Risks", result.Issues, true)
	writeAudit(&b, result)

	if _, err := io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

func writeSummary(b *strings.Builder, result *domain.AnalysisResult) {
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- **Total Tasks**: %d\n", len(result.Tasks))
	fmt.Fprintf(b, "- **Total Processes**: %d\n", len(result.Processes))
	fmt.Fprintf(b, "- **Documents Analyzed**: %d (failed: %d)\n", len(result.Documents), len(result.Failures))
	fmt.Fprintf(b, "- **Total Time**: %.2f hours\n", float64(result.Aggregates.TotalTimeMinutes)/60)
	for _, sub := range result.Aggregates.CurrencyTotals {
		fmt.Fprintf(b, "- **Total Cost (%s)**: %s\n", sub.Currency, sub.TotalCost.Round(2).StringFixed(2))
	}
	fmt.Fprintf(b, "- **Documentation Health**: %.1f%% (%s)\n", result.DocHealth.Percentage, result.DocHealth.Status)
	fmt.Fprintf(b, "- **Attention Health**: %.1f%% (%s)\n\n", result.AttentionHealth.Percentage, result.AttentionHealth.Status)
}

func writeBreakdown(b *strings.Builder, title, column string, stats map[string]domain.GroupStat) {
	if len(stats) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| %s | Tasks | Cost | Time (hrs) |\n", column)
	b.WriteString("|---|---|---|---|\n")

	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		stat := stats[key]
		fmt.Fprintf(b, "| %s | %d | %s | %.2f |\n",
			key, stat.TaskCount, stat.TotalCost.Round(2).StringFixed(2), float64(stat.TimeMinutes)/60)
	}
	b.WriteString("\n")
}

func writeItems(b *strings.Builder, title string, items []domain.CategorizedItem, withPriority bool) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("*None captured in the current data.*\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "### %s\n\n", orUnknown(item.TaskName))
		fmt.Fprintf(b, "- **Category**: %s\n", item.Category)
		fmt.Fprintf(b, "- **Swimlane**: %s\n", orUnknown(item.Swimlane))
		fmt.Fprintf(b, "- **Owner**: %s\n", orUnknown(item.Owner))
		if withPriority && item.Priority != "" {
			fmt.Fprintf(b, "- **Priority**: %s\n", item.Priority)
		}
		fmt.Fprintf(b, "\n%s\n\n---\n\n", item.Text)
	}
}

func writeAudit(b *strings.Builder, result *domain.AnalysisResult) {
	audit := result.Audit
	b.WriteString("## Data Audit\n\n")
	fmt.Fprintf(b, "- Missing swimlanes: %d\n", audit.MissingSwimlanes)
	fmt.Fprintf(b, "- Missing owners: %d\n", audit.MissingOwners)
	fmt.Fprintf(b, "- Missing time estimates: %d\n", audit.MissingTime)
	fmt.Fprintf(b, "- Missing cost data: %d\n", audit.MissingCost)
	fmt.Fprintf(b, "- Calculation mismatches: %d\n", audit.CalculationErrors)
	for _, warning := range audit.Warnings {
		fmt.Fprintf(b, "- **Warning** (%s, %s): expected %d, got %d\n",
			warning.Filename, warning.Kind, warning.Expected, warning.Actual)
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(b, "- **Failed document** %s: %s\n", failure.Filename, failure.Reason)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
