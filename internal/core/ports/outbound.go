package ports

import (
	"context"
	"io"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// RunRepository persists run state and analysis results.
type RunRepository interface {
	CreateRun(ctx context.Context, run *domain.AnalysisRun) error
	GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error)
	UpdateStatus(ctx context.Context, id string, status domain.RunStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result *domain.AnalysisResult) error
	GetResult(ctx context.Context, id string) (*domain.AnalysisResult, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes run execution events.
type MessageQueue interface {
	PublishRunRequested(ctx context.Context, runID string) error
	SubscribeRunRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// ModelExtractor decodes one document's bytes into its structural extraction:
// processes, raw tasks with lane context, and node-tree element counts. A
// byte stream that cannot be decoded yields domain.ErrMalformedDocument.
type ModelExtractor interface {
	Extract(docID, filename string, data []byte) (*domain.SourceDocument, error)
}

// TaskNormalizer converts one raw extraction into a typed task. It is a pure
// function of its input; missing or invalid fields are defaulted, never
// rejected.
type TaskNormalizer interface {
	Normalize(docID string, raw domain.RawTask) domain.Task
}

// Categorizer classifies free text into the fixed taxonomy.
type Categorizer interface {
	CategorizeOpportunity(text string) domain.Category
	CategorizeIssue(text string) domain.Category
}
