package domain

import "time"

type RunStatus string

const (
	RunStatusReceived   RunStatus = "received"
	RunStatusProcessing RunStatus = "processing"
	RunStatusReady      RunStatus = "ready"
	RunStatusFailed     RunStatus = "failed"
)

// DocumentRef points at one uploaded document inside a run's batch. Upload
// order is the merge order.
type DocumentRef struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	StorageKey string `json:"storage_key"`
}

// AnalysisRun tracks one upload batch through the pipeline. The result is
// attached once the run reaches ready; a failed run carries the error text
// instead.
type AnalysisRun struct {
	ID        string        `json:"id"`
	Status    RunStatus     `json:"status"`
	Documents []DocumentRef `json:"documents"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
