package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
	"github.com/Kahlain/bpmn-analysis/internal/core/ports"
)

type UploadBatchUseCase struct {
	repo    ports.RunRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewUploadBatchUseCase(
	repo ports.RunRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *UploadBatchUseCase {
	return &UploadBatchUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// UploadBatch stores every document of one upload batch, records the run in
// upload order, and schedules it for analysis.
func (uc *UploadBatchUseCase) UploadBatch(ctx context.Context, files []ports.UploadedFile) (*domain.AnalysisRun, error) {
	if len(files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload batch", errors.New("no files in batch"))
	}

	runID := uuid.NewString()
	now := time.Now().UTC()

	run := &domain.AnalysisRun{
		ID:        runID,
		Status:    domain.RunStatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, file := range files {
		docID := uuid.NewString()
		storageKey := fmt.Sprintf("%s_%s_%s", runID, docID, sanitizeFilename(file.Filename))

		if err := uc.storage.Save(ctx, storageKey, file.Body); err != nil {
			return nil, fmt.Errorf("save %q to object storage: %w", file.Filename, err)
		}
		run.Documents = append(run.Documents, domain.DocumentRef{
			ID:         docID,
			Filename:   file.Filename,
			StorageKey: storageKey,
		})
	}

	if err := uc.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}

	if err := uc.queue.PublishRunRequested(ctx, run.ID); err != nil {
		return nil, fmt.Errorf("publish run event: %w", err)
	}

	return run, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		return "document.bpmn"
	}
	return base
}
