package domain

import "github.com/shopspring/decimal"

// GroupStat accumulates per-group counts and sums. Cost is kept as an exact
// decimal until presentation; only individual task costs are rounded.
type GroupStat struct {
	TaskCount   int             `json:"task_count"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TimeMinutes int             `json:"time_minutes"`
}

// CurrencyTotal is one per-currency subtotal. Costs in different currencies
// are never summed into a single figure.
type CurrencyTotal struct {
	Currency    string          `json:"currency"`
	TaskCount   int             `json:"task_count"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TimeMinutes int             `json:"time_minutes"`
}

// Aggregates holds every grouped view over the merged task set. All maps are
// recomputed on each analysis pass and never updated incrementally.
type Aggregates struct {
	BySwimlane  map[string]GroupStat `json:"by_swimlane"`
	ByOwner     map[string]GroupStat `json:"by_owner"`
	ByStatus    map[string]GroupStat `json:"by_status"`
	ByDocStatus map[string]GroupStat `json:"by_doc_status"`
	ByPriority  map[string]GroupStat `json:"by_priority"`
	ByTool      map[string]GroupStat `json:"by_tool"`
	// ByToolCombination keys are the canonical form of the unordered tool
	// set on a single task (sorted, "+"-joined).
	ByToolCombination map[string]GroupStat `json:"by_tool_combination"`

	CurrencyTotals   []CurrencyTotal `json:"currency_totals"`
	TotalTimeMinutes int             `json:"total_time_minutes"`
}

type HealthStatus string

const (
	HealthExcellent HealthStatus = "Excellent"
	HealthGood      HealthStatus = "Good"
	HealthFair      HealthStatus = "Fair"
	HealthPoor      HealthStatus = "Poor"
)

// BandHealth maps a 0-100 percentage onto its qualitative status band.
func BandHealth(percentage float64) HealthStatus {
	switch {
	case percentage >= 90:
		return HealthExcellent
	case percentage >= 75:
		return HealthGood
	case percentage >= 50:
		return HealthFair
	default:
		return HealthPoor
	}
}

// HealthMetric is one derived quality score over the merged task set.
type HealthMetric struct {
	TotalTasks      int          `json:"total_tasks"`
	QualifyingTasks int          `json:"qualifying_tasks"`
	Percentage      float64      `json:"percentage"`
	Status          HealthStatus `json:"status"`
}

type WarningKind string

const (
	WarnTaskCountMismatch    WarningKind = "task_count_mismatch"
	WarnProcessCountMismatch WarningKind = "process_count_mismatch"
)

// StructuralWarning flags a non-fatal discrepancy between the node tree and
// the normalized task set for one document.
type StructuralWarning struct {
	DocumentID string      `json:"document_id"`
	Filename   string      `json:"filename"`
	Kind       WarningKind `json:"kind"`
	Expected   int         `json:"expected"`
	Actual     int         `json:"actual"`
}

// DocumentFailure records one document excluded from the merge.
type DocumentFailure struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Reason     string `json:"reason"`
}

// AuditResult carries the parsing audit plus the missing-data counters the
// quality checks surface. Mismatches are warnings, never fatal.
type AuditResult struct {
	TotalTasks     int                 `json:"total_tasks"`
	TotalProcesses int                 `json:"total_processes"`
	Warnings       []StructuralWarning `json:"warnings,omitempty"`

	MissingSwimlanes  int `json:"missing_swimlanes"`
	MissingOwners     int `json:"missing_owners"`
	MissingTime       int `json:"missing_time"`
	MissingCost       int `json:"missing_cost"`
	NegativeCost      int `json:"negative_cost"`
	CalculationErrors int `json:"calculation_errors"`
}

// DocumentInfo is the per-document summary attached to a result.
type DocumentInfo struct {
	DocumentID      string `json:"document_id"`
	Filename        string `json:"filename"`
	Exporter        string `json:"exporter,omitempty"`
	ExporterVersion string `json:"exporter_version,omitempty"`
	TargetNamespace string `json:"target_namespace,omitempty"`
	TaskCount       int    `json:"task_count"`
	ProcessCount    int    `json:"process_count"`
}

// AnalysisResult is the complete output of one analysis run, handed to
// reporting and export collaborators unchanged. Costs stay numeric.
type AnalysisResult struct {
	Documents []DocumentInfo    `json:"documents"`
	Failures  []DocumentFailure `json:"failures,omitempty"`

	Tasks     []Task    `json:"tasks"`
	Processes []Process `json:"processes"`

	Aggregates    Aggregates        `json:"aggregates"`
	Opportunities []CategorizedItem `json:"opportunities,omitempty"`
	Issues        []CategorizedItem `json:"issues,omitempty"`

	Audit           AuditResult  `json:"audit"`
	DocHealth       HealthMetric `json:"doc_health"`
	AttentionHealth HealthMetric `json:"attention_health"`
}
