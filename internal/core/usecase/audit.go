package usecase

import (
	"math"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// costTolerance is the absolute threshold for flagging a stored total cost
// that disagrees with the recomputed one.
const costTolerance = 0.01

// BuildAudit recounts task and process elements straight from each
// document's node-tree statistics and compares them with what survived
// normalization. Mismatches become warnings, never errors: the point is to
// make silent task loss visible.
func BuildAudit(sources []*domain.SourceDocument, tasks []domain.Task) domain.AuditResult {
	audit := domain.AuditResult{
		TotalTasks: len(tasks),
	}

	perDoc := map[string]int{}
	for _, task := range tasks {
		perDoc[task.SourceDoc]++
	}

	for _, src := range sources {
		audit.TotalProcesses += len(src.Processes)

		if got := perDoc[src.ID]; got != src.Stats.TaskElements {
			audit.Warnings = append(audit.Warnings, domain.StructuralWarning{
				DocumentID: src.ID,
				Filename:   src.Filename,
				Kind:       domain.WarnTaskCountMismatch,
				Expected:   src.Stats.TaskElements,
				Actual:     got,
			})
		}
		if got := len(src.Processes); got != src.Stats.ProcessElements {
			audit.Warnings = append(audit.Warnings, domain.StructuralWarning{
				DocumentID: src.ID,
				Filename:   src.Filename,
				Kind:       domain.WarnProcessCountMismatch,
				Expected:   src.Stats.ProcessElements,
				Actual:     got,
			})
		}
	}

	for _, task := range tasks {
		if task.Swimlane == "" || task.Swimlane == domain.UnknownLane {
			audit.MissingSwimlanes++
		}
		if task.Owner == "" {
			audit.MissingOwners++
		}
		if task.RawTime == "" {
			audit.MissingTime++
		}
		if task.CostPerHour == 0 {
			audit.MissingCost++
		}
		if task.CostPerHour < 0 {
			audit.NegativeCost++
		}

		recomputed := float64(task.TimeMinutes) / 60 * task.CostPerHour
		if math.Abs(recomputed-task.TotalCost) > costTolerance {
			audit.CalculationErrors++
		}
	}

	return audit
}

// DocumentationHealth scores documentation coverage: only tasks whose status
// is Documented count; everything else, Unknown included, is the deficit.
func DocumentationHealth(tasks []domain.Task) domain.HealthMetric {
	documented := 0
	for _, task := range tasks {
		if task.DocStatus == domain.DocStatusDocumented {
			documented++
		}
	}
	return healthMetric(len(tasks), documented, documented)
}

// AttentionHealth scores the share of tasks that need no analyst follow-up.
func AttentionHealth(tasks []domain.Task) domain.HealthMetric {
	attention := 0
	for _, task := range tasks {
		if task.NeedsAttention() {
			attention++
		}
	}
	return healthMetric(len(tasks), attention, len(tasks)-attention)
}

// healthMetric derives the percentage and band. An empty task set scores 0,
// not NaN.
func healthMetric(total, qualifying, healthy int) domain.HealthMetric {
	percentage := 0.0
	if total > 0 {
		percentage = float64(healthy) / float64(total) * 100
	}
	return domain.HealthMetric{
		TotalTasks:      total,
		QualifyingTasks: qualifying,
		Percentage:      percentage,
		Status:          domain.BandHealth(percentage),
	}
}
