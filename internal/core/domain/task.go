package domain

// UnknownLane is the sentinel swimlane for tasks whose identifier matches no
// lane membership list in the source document.
const UnknownLane = "Unknown"

// NoCurrency is the sentinel currency code for tasks without a currency
// property. Currency codes are never validated against ISO 4217.
const NoCurrency = "N/A"

type TaskType string

const (
	TaskTypeOrdinary TaskType = "task"
	TaskTypeSend     TaskType = "sendTask"
	TaskTypeManual   TaskType = "manualTask"
)

type DocStatus string

const (
	DocStatusDocumented    DocStatus = "Documented"
	DocStatusInProcess     DocStatus = "In Process to be Documented"
	DocStatusNotDocumented DocStatus = "Not Documented"
	DocStatusDraft         DocStatus = "Draft"
	DocStatusUnknown       DocStatus = "Unknown"
)

type FAQPair struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// Task is one unit of work extracted from a process document, fully defaulted.
// TotalCost is always round(TimeMinutes/60 * CostPerHour, 2).
type Task struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	SourceDoc string   `json:"source_doc"`
	Process   string   `json:"process"`
	Swimlane  string   `json:"swimlane"`
	Type      TaskType `json:"type"`
	Owner     string   `json:"owner,omitempty"`

	RawTime     string  `json:"raw_time"`
	TimeMinutes int     `json:"time_minutes"`
	CostPerHour float64 `json:"cost_per_hour"`
	Currency    string  `json:"currency"`
	TotalCost   float64 `json:"total_cost"`

	Status      string    `json:"status,omitempty"`
	DocStatus   DocStatus `json:"doc_status"`
	DocURL      string    `json:"doc_url,omitempty"`
	Description string    `json:"description,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	Tools       []string  `json:"tools,omitempty"`

	Opportunities  string    `json:"opportunities,omitempty"`
	IssuesText     string    `json:"issues_text,omitempty"`
	IssuesPriority string    `json:"issues_priority,omitempty"`
	FAQ            []FAQPair `json:"faq,omitempty"`
}

// TimeHours derives hours from the parsed minute estimate.
func (t Task) TimeHours() float64 {
	return float64(t.TimeMinutes) / 60
}

// NeedsAttention reports whether the task is missing data an analyst would
// have to chase down: unknown swimlane, no owner, no time estimate, or
// documentation that does not exist yet.
func (t Task) NeedsAttention() bool {
	if t.Swimlane == "" || t.Swimlane == UnknownLane {
		return true
	}
	if t.Owner == "" {
		return true
	}
	if t.TimeMinutes == 0 {
		return true
	}
	if t.DocStatus == DocStatusNotDocumented || t.DocStatus == DocStatusInProcess {
		return true
	}
	return false
}

// Process is a named container of tasks within one source document.
type Process struct {
	Name      string `json:"name"`
	SourceDoc string `json:"source_doc"`
	TaskCount int    `json:"task_count"`
}

// RawTask is the untyped extraction output for one task-like element: the
// vendor metadata properties as found, plus structural context. A task with
// no recognized properties still yields a RawTask with an empty map.
type RawTask struct {
	ID         string
	Name       string
	Type       TaskType
	Process    string
	Lane       string
	Properties map[string]string
}

// ModelStats are element counts taken directly from the node tree, before
// any extraction or normalization. The parsing audit compares them against
// the merged task set to detect silent loss.
type ModelStats struct {
	TaskElements    int `json:"task_elements"`
	ProcessElements int `json:"process_elements"`
}

// SourceDocument is the full extraction result for one parsed document.
type SourceDocument struct {
	ID       string
	Filename string

	Exporter        string
	ExporterVersion string
	TargetNamespace string

	Processes []Process
	Tasks     []RawTask
	Stats     ModelStats
}
