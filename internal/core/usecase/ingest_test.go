package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
	"github.com/Kahlain/bpmn-analysis/internal/core/ports"
)

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishRunRequested(_ context.Context, runID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, runID)
	return nil
}

func (f *queueFake) SubscribeRunRequested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestUploadBatchSuccess(t *testing.T) {
	repo := &runRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewUploadBatchUseCase(repo, storage, queue)

	files := []ports.UploadedFile{
		{Filename: "claims v2.bpmn", Body: bytes.NewBufferString("<a/>")},
		{Filename: "orders.bpmn", Body: bytes.NewBufferString("<b/>")},
	}
	run, err := uc.UploadBatch(context.Background(), files)
	if err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}

	if run.ID == "" || run.Status != domain.RunStatusReceived {
		t.Fatalf("unexpected run: %+v", run)
	}
	if len(run.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(run.Documents))
	}
	// Upload order is preserved in the run record.
	if run.Documents[0].Filename != "claims v2.bpmn" || run.Documents[1].Filename != "orders.bpmn" {
		t.Fatalf("unexpected document order: %+v", run.Documents)
	}
	// Storage keys are sanitized; spaces never reach the filesystem.
	if strings.Contains(run.Documents[0].StorageKey, " ") {
		t.Fatalf("expected sanitized storage key, got %q", run.Documents[0].StorageKey)
	}
	if got := storage.objects[run.Documents[0].StorageKey]; got != "<a/>" {
		t.Fatalf("expected file body stored, got %q", got)
	}
	if repo.run == nil || repo.run.ID != run.ID {
		t.Fatalf("expected run persisted, got %+v", repo.run)
	}
	if len(queue.published) != 1 || queue.published[0] != run.ID {
		t.Fatalf("expected run scheduled once, got %v", queue.published)
	}
}

func TestUploadBatchRejectsEmptyBatch(t *testing.T) {
	uc := NewUploadBatchUseCase(&runRepoFake{}, &storageFake{}, &queueFake{})

	_, err := uc.UploadBatch(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}

func TestUploadBatchPropagatesQueueFailure(t *testing.T) {
	queue := &queueFake{err: errors.New("no responders")}
	uc := NewUploadBatchUseCase(&runRepoFake{}, &storageFake{}, queue)

	_, err := uc.UploadBatch(context.Background(), []ports.UploadedFile{
		{Filename: "a.bpmn", Body: bytes.NewBufferString("<a/>")},
	})
	if err == nil || !strings.Contains(err.Error(), "no responders") {
		t.Fatalf("expected queue failure surfaced, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"claims v2.bpmn", "claims_v2.bpmn"},
		{"../../etc/passwd", "passwd"},
		{"procès élevé.bpmn", "proc_s__lev_.bpmn"},
		{"", "document.bpmn"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
