package excel

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// Writer serializes an analysis result into a workbook. Costs are written
// as numbers rounded to two decimals at this boundary; the result itself is
// never mutated.
type Writer struct{}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Write(result *domain.AnalysisResult, out io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummary(f, result); err != nil {
		return err
	}
	if err := writeTasks(f, result.Tasks); err != nil {
		return err
	}

	breakdowns := []struct {
		sheet  string
		column string
		stats  map[string]domain.GroupStat
	}{
		{"Swimlane Analysis", "Swimlane/Department", result.Aggregates.BySwimlane},
		{"Owner Analysis", "Owner", result.Aggregates.ByOwner},
		{"Status Analysis", "Status", result.Aggregates.ByStatus},
		{"Priority Analysis", "Priority", result.Aggregates.ByPriority},
		{"Documentation Status", "Documentation Status", result.Aggregates.ByDocStatus},
		{"Tools Analysis", "Tool", result.Aggregates.ByTool},
	}
	for _, b := range breakdowns {
		if err := writeBreakdown(f, b.sheet, b.column, b.stats); err != nil {
			return err
		}
	}

	if err := writeItems(f, "Opportunities", result.Opportunities, false); err != nil {
		return err
	}
	if err := writeItems(f, "Issues", result.Issues, true); err != nil {
		return err
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, result *domain.AnalysisResult) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}

	rows := [][]any{
		{"Total Tasks", len(result.Tasks)},
		{"Total Processes", len(result.Processes)},
		{"Documents Analyzed", len(result.Documents)},
		{"Documents Failed", len(result.Failures)},
		{"Total Time (min)", result.Aggregates.TotalTimeMinutes},
		{"Total Time (hrs)", float64(result.Aggregates.TotalTimeMinutes) / 60},
		{"Documentation Health (%)", result.DocHealth.Percentage},
		{"Documentation Health", string(result.DocHealth.Status)},
		{"Attention Health (%)", result.AttentionHealth.Percentage},
		{"Attention Health", string(result.AttentionHealth.Status)},
	}
	// One subtotal row per currency; there is deliberately no single
	// cross-currency figure.
	for _, sub := range result.Aggregates.CurrencyTotals {
		rows = append(rows, []any{
			fmt.Sprintf("Total Cost (%s)", sub.Currency),
			sub.TotalCost.Round(2).InexactFloat64(),
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("summary cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	return nil
}

func writeTasks(f *excelize.File, tasks []domain.Task) error {
	const sheet = "Tasks"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create tasks sheet: %w", err)
	}

	header := []any{
		"ID", "Name", "Source Document", "Process", "Swimlane", "Type",
		"Owner", "Time", "Time (min)", "Cost/Hour", "Currency", "Total Cost",
		"Status", "Documentation Status", "Documentation URL", "Tools",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write tasks header: %w", err)
	}

	for i, task := range tasks {
		row := []any{
			task.ID, task.Name, task.SourceDoc, task.Process, task.Swimlane,
			string(task.Type), task.Owner, task.RawTime, task.TimeMinutes,
			task.CostPerHour, task.Currency, task.TotalCost, task.Status,
			string(task.DocStatus), task.DocURL, strings.Join(task.Tools, "; "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("tasks cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write task row: %w", err)
		}
	}
	return nil
}

func writeBreakdown(f *excelize.File, sheet, column string, stats map[string]domain.GroupStat) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", sheet, err)
	}

	header := []any{column, "Task Count", "Total Cost", "Total Time (min)", "Total Time (hrs)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		stat := stats[key]
		row := []any{
			key,
			stat.TaskCount,
			stat.TotalCost.Round(2).InexactFloat64(),
			stat.TimeMinutes,
			float64(stat.TimeMinutes) / 60,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s cell name: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row: %w", sheet, err)
		}
	}
	return nil
}

func writeItems(f *excelize.File, sheet string, items []domain.CategorizedItem, withPriority bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", sheet, err)
	}

	header := []any{"Category", "Task", "Swimlane", "Owner", "Text"}
	if withPriority {
		header = append(header, "Priority")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i, item := range items {
		row := []any{string(item.Category), item.TaskName, item.Swimlane, item.Owner, item.Text}
		if withPriority {
			row = append(row, item.Priority)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s cell name: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row: %w", sheet, err)
		}
	}
	return nil
}
