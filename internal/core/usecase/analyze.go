package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
	"github.com/Kahlain/bpmn-analysis/internal/core/ports"
)

type AnalyzeRunUseCase struct {
	repo        ports.RunRepository
	storage     ports.ObjectStorage
	extractor   ports.ModelExtractor
	normalizer  ports.TaskNormalizer
	categorizer ports.Categorizer
}

func NewAnalyzeRunUseCase(
	repo ports.RunRepository,
	storage ports.ObjectStorage,
	extractor ports.ModelExtractor,
	normalizer ports.TaskNormalizer,
	categorizer ports.Categorizer,
) *AnalyzeRunUseCase {
	return &AnalyzeRunUseCase{
		repo:        repo,
		storage:     storage,
		extractor:   extractor,
		normalizer:  normalizer,
		categorizer: categorizer,
	}
}

// ProcessRun executes one analysis run end to end and persists the result.
// Per-document parse failures stay inside the result; only infrastructure
// errors fail the run.
func (uc *AnalyzeRunUseCase) ProcessRun(ctx context.Context, runID string) error {
	if err := uc.repo.UpdateStatus(ctx, runID, domain.RunStatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	run, err := uc.repo.GetRun(ctx, runID)
	if err != nil {
		err = fmt.Errorf("fetch run: %w", err)
		if failErr := uc.markFailed(ctx, runID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	result := uc.analyze(ctx, run)

	if err := uc.repo.SaveResult(ctx, runID, result); err != nil {
		err = fmt.Errorf("save result: %w", err)
		if failErr := uc.markFailed(ctx, runID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, runID, domain.RunStatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

type documentOutcome struct {
	source *domain.SourceDocument
	err    error
}

// analyze runs each document through read->extract independently (the
// documents share no state before the merge), then joins in upload order so
// the merged set is deterministic regardless of completion order.
func (uc *AnalyzeRunUseCase) analyze(ctx context.Context, run *domain.AnalysisRun) *domain.AnalysisResult {
	outcomes := make([]documentOutcome, len(run.Documents))

	var wg sync.WaitGroup
	for i, ref := range run.Documents {
		wg.Add(1)
		go func(i int, ref domain.DocumentRef) {
			defer wg.Done()
			source, err := uc.extractDocument(ctx, ref)
			outcomes[i] = documentOutcome{source: source, err: err}
		}(i, ref)
	}
	wg.Wait()

	result := &domain.AnalysisResult{}
	var sources []*domain.SourceDocument

	for i, outcome := range outcomes {
		ref := run.Documents[i]
		if outcome.err != nil {
			result.Failures = append(result.Failures, domain.DocumentFailure{
				DocumentID: ref.ID,
				Filename:   ref.Filename,
				Reason:     outcome.err.Error(),
			})
			continue
		}
		src := outcome.source
		sources = append(sources, src)

		for _, raw := range src.Tasks {
			result.Tasks = append(result.Tasks, uc.normalizer.Normalize(src.ID, raw))
		}
		result.Processes = append(result.Processes, src.Processes...)
		result.Documents = append(result.Documents, domain.DocumentInfo{
			DocumentID:      src.ID,
			Filename:        src.Filename,
			Exporter:        src.Exporter,
			ExporterVersion: src.ExporterVersion,
			TargetNamespace: src.TargetNamespace,
			TaskCount:       len(src.Tasks),
			ProcessCount:    len(src.Processes),
		})
	}

	result.Aggregates = Aggregate(result.Tasks)
	result.Opportunities, result.Issues = uc.categorizeItems(result.Tasks)
	result.Audit = BuildAudit(sources, result.Tasks)
	result.DocHealth = DocumentationHealth(result.Tasks)
	result.AttentionHealth = AttentionHealth(result.Tasks)

	return result
}

func (uc *AnalyzeRunUseCase) extractDocument(ctx context.Context, ref domain.DocumentRef) (*domain.SourceDocument, error) {
	body, err := uc.storage.Open(ctx, ref.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read stored document: %w", err)
	}

	source, err := uc.extractor.Extract(ref.ID, ref.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	return source, nil
}

func (uc *AnalyzeRunUseCase) categorizeItems(tasks []domain.Task) (opportunities, issues []domain.CategorizedItem) {
	for _, task := range tasks {
		if task.Opportunities != "" {
			opportunities = append(opportunities, domain.CategorizedItem{
				TaskID:   task.ID,
				TaskName: task.Name,
				Swimlane: task.Swimlane,
				Owner:    task.Owner,
				Text:     task.Opportunities,
				Category: uc.categorizer.CategorizeOpportunity(task.Opportunities),
			})
		}
		if task.IssuesText != "" {
			issues = append(issues, domain.CategorizedItem{
				TaskID:   task.ID,
				TaskName: task.Name,
				Swimlane: task.Swimlane,
				Owner:    task.Owner,
				Text:     task.IssuesText,
				Category: uc.categorizer.CategorizeIssue(task.IssuesText),
				Priority: task.IssuesPriority,
			})
		}
	}
	return opportunities, issues
}

func (uc *AnalyzeRunUseCase) markFailed(ctx context.Context, runID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, runID, domain.RunStatusFailed, processErr.Error())
}
