package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
	"github.com/Kahlain/bpmn-analysis/internal/core/ports"
)

type ingestFake struct {
	run   *domain.AnalysisRun
	err   error
	files []string
}

func (f *ingestFake) UploadBatch(_ context.Context, files []ports.UploadedFile) (*domain.AnalysisRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, file := range files {
		f.files = append(f.files, file.Filename)
	}
	return f.run, nil
}

type runsFake struct {
	run    *domain.AnalysisRun
	result *domain.AnalysisResult
	err    error
}

func (f *runsFake) GetRun(context.Context, string) (*domain.AnalysisRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.run, nil
}

func (f *runsFake) GetResult(context.Context, string) (*domain.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type reportWriterFake struct {
	payload string
}

func (f *reportWriterFake) Write(_ *domain.AnalysisResult, out io.Writer) error {
	_, err := io.WriteString(out, f.payload)
	return err
}

func newTestRouter(ingest ports.BatchIngestor, runs ports.RunReader) http.Handler {
	return NewRouter(ingest, runs, &reportWriterFake{payload: "xlsx"}, &reportWriterFake{payload: "# md"}, nil, 0, 0, 0).Handler()
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(&ingestFake{}, &runsFake{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateRunAcceptsMultipartBatch(t *testing.T) {
	ingest := &ingestFake{run: &domain.AnalysisRun{ID: "run-1", Status: domain.RunStatusReceived}}
	handler := newTestRouter(ingest, &runsFake{})

	body, contentType := multipartBody(t, "files", map[string]string{
		"a.bpmn": "<a/>",
		"b.bpmn": "<b/>",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(ingest.files) != 2 {
		t.Fatalf("expected 2 files forwarded, got %v", ingest.files)
	}
	var run domain.AnalysisRun
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if run.ID != "run-1" {
		t.Fatalf("unexpected run in response: %+v", run)
	}
}

func TestCreateRunAcceptsLegacyFileField(t *testing.T) {
	ingest := &ingestFake{run: &domain.AnalysisRun{ID: "run-1"}}
	handler := newTestRouter(ingest, &runsFake{})

	body, contentType := multipartBody(t, "file", map[string]string{"a.bpmn": "<a/>"})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestCreateRunWithoutFiles(t *testing.T) {
	handler := newTestRouter(&ingestFake{}, &runsFake{})

	body, contentType := multipartBody(t, "attachments", map[string]string{"a.bpmn": "<a/>"})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateRunRequiresPost(t *testing.T) {
	handler := newTestRouter(&ingestFake{}, &runsFake{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestErrorKindsMapToStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("no files")), http.StatusBadRequest},
		{domain.WrapError(domain.ErrRunNotFound, "get run", errors.New("id=x")), http.StatusNotFound},
		{domain.WrapError(domain.ErrMalformedDocument, "decode", errors.New("line 1")), http.StatusUnprocessableEntity},
		{domain.WrapError(domain.ErrTemporary, "publish", errors.New("no broker")), http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		handler := newTestRouter(&ingestFake{}, &runsFake{err: tc.err})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run-1", nil))
		if rec.Code != tc.want {
			t.Errorf("error %v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestGetRunAndResult(t *testing.T) {
	runs := &runsFake{
		run:    &domain.AnalysisRun{ID: "run-1", Status: domain.RunStatusReady},
		result: &domain.AnalysisResult{Tasks: []domain.Task{{ID: "t1"}}},
	}
	handler := newTestRouter(&ingestFake{}, runs)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get run: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run-1/result", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get result: expected 200, got %d", rec.Code)
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Tasks) != 1 {
		t.Fatalf("unexpected result payload: %+v", result)
	}
}

func TestReportDownloads(t *testing.T) {
	runs := &runsFake{result: &domain.AnalysisResult{}}
	handler := newTestRouter(&ingestFake{}, runs)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run-1/report.md", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != "# md" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run-1/report.xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "analysis.xlsx") {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestUnknownSubresource(t *testing.T) {
	handler := newTestRouter(&ingestFake{}, &runsFake{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run-1/report.pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRateLimitReturns429(t *testing.T) {
	handler := NewRouter(&ingestFake{}, &runsFake{}, nil, nil, nil, 1, 1, 0).Handler()

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	handler := newTestRouter(&ingestFake{}, &runsFake{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}
