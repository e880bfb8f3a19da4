package domain

// Category is one semantic bucket from the categorization taxonomy.
type Category string

const (
	CategoryOther Category = "Other"
)

// CategorizedItem pairs a free-text field with its source task and assigned
// category. Priority is carried through unchanged for issues; it is read
// from the source metadata, never inferred.
type CategorizedItem struct {
	TaskID   string   `json:"task_id"`
	TaskName string   `json:"task_name"`
	Swimlane string   `json:"swimlane"`
	Owner    string   `json:"owner,omitempty"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Priority string   `json:"priority,omitempty"`
}
