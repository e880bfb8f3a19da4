package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	documents JSONB NOT NULL DEFAULT '[]',
	error TEXT,
	result JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_status ON analysis_runs (status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return tx.Commit()
}

func (r *RunRepository) CreateRun(ctx context.Context, run *domain.AnalysisRun) error {
	documents, err := json.Marshal(run.Documents)
	if err != nil {
		return fmt.Errorf("marshal run documents: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO analysis_runs (id, status, documents, error, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, run.ID, string(run.Status), documents, nullable(run.Error), run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (r *RunRepository) GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, status, documents, error, created_at, updated_at
FROM analysis_runs
WHERE id = $1
`, id)

	var run domain.AnalysisRun
	var status string
	var documents []byte
	var errMessage sql.NullString
	err := row.Scan(&run.ID, &status, &documents, &errMessage, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRunNotFound, "get run", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}

	run.Status = domain.RunStatus(status)
	run.Error = errMessage.String
	if err := json.Unmarshal(documents, &run.Documents); err != nil {
		return nil, fmt.Errorf("unmarshal run documents: %w", err)
	}
	return &run, nil
}

func (r *RunRepository) UpdateStatus(ctx context.Context, id string, status domain.RunStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE analysis_runs
SET status = $2, error = $3, updated_at = $4
WHERE id = $1
`, id, string(status), nullable(errMessage), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrRunNotFound, "update run status", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *RunRepository) SaveResult(ctx context.Context, id string, analysisResult *domain.AnalysisResult) error {
	payload, err := json.Marshal(analysisResult)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE analysis_runs
SET result = $2, updated_at = $3
WHERE id = $1
`, id, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save analysis result rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrRunNotFound, "save analysis result", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *RunRepository) GetResult(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT result
FROM analysis_runs
WHERE id = $1
`, id)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRunNotFound, "get result", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get result by run id: %w", err)
	}
	if payload == nil {
		return nil, domain.WrapError(domain.ErrRunNotFound, "get result", fmt.Errorf("run %s has no result yet", id))
	}

	var analysisResult domain.AnalysisResult
	if err := json.Unmarshal(payload, &analysisResult); err != nil {
		return nil, fmt.Errorf("unmarshal analysis result: %w", err)
	}
	return &analysisResult, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
