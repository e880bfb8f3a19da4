package ports

import (
	"context"
	"io"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// UploadedFile is one document in an upload batch, in upload order.
type UploadedFile struct {
	Filename string
	Body     io.Reader
}

// BatchIngestor is the inbound contract for accepting an upload batch.
type BatchIngestor interface {
	UploadBatch(ctx context.Context, files []UploadedFile) (*domain.AnalysisRun, error)
}

// RunProcessor is the inbound contract for asynchronous run execution.
type RunProcessor interface {
	ProcessRun(ctx context.Context, runID string) error
}

// RunReader is the inbound read model for run state and results.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error)
	GetResult(ctx context.Context, id string) (*domain.AnalysisResult, error)
}
