package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
	"github.com/Kahlain/bpmn-analysis/internal/core/ports"
	"github.com/Kahlain/bpmn-analysis/internal/observability/metrics"
)

// defaultMaxUploadBytes bounds one multipart upload batch in memory.
const defaultMaxUploadBytes = 64 << 20

// ReportWriter serializes an analysis result for download.
type ReportWriter interface {
	Write(result *domain.AnalysisResult, out io.Writer) error
}

type Router struct {
	ingest  ports.BatchIngestor
	runs    ports.RunReader
	excel   ReportWriter
	md      ReportWriter
	metrics *metrics.HTTPServerMetrics

	rateLimitRPS   float64
	rateLimitBurst int
	maxUploadBytes int64
}

func NewRouter(
	ingest ports.BatchIngestor,
	runs ports.RunReader,
	excel ReportWriter,
	md ReportWriter,
	httpMetrics *metrics.HTTPServerMetrics,
	rateLimitRPS float64,
	rateLimitBurst int,
	maxUploadBytes int64,
) *Router {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Router{
		ingest:         ingest,
		runs:           runs,
		excel:          excel,
		md:             md,
		metrics:        httpMetrics,
		rateLimitRPS:   rateLimitRPS,
		rateLimitBurst: rateLimitBurst,
		maxUploadBytes: maxUploadBytes,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/runs", rt.createRun)
	mux.HandleFunc("/v1/runs/", rt.runSubresource)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form is required"})
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}

	files := make([]ports.UploadedFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("open uploaded file %q", header.Filename)})
			return
		}
		defer file.Close()
		files = append(files, ports.UploadedFile{Filename: header.Filename, Body: file})
	}

	run, err := rt.ingest.UploadBatch(r.Context(), files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, run)
}

func (rt *Router) runSubresource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "run id is required"})
		return
	}

	switch sub {
	case "":
		rt.getRun(w, r, id)
	case "result":
		rt.getResult(w, r, id)
	case "report.xlsx":
		rt.getReport(w, r, id, rt.excel, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "analysis.xlsx")
	case "report.md":
		rt.getReport(w, r, id, rt.md, "text/markdown; charset=utf-8", "analysis.md")
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown run subresource"})
	}
}

func (rt *Router) getRun(w http.ResponseWriter, r *http.Request, id string) {
	run, err := rt.runs.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (rt *Router) getResult(w http.ResponseWriter, r *http.Request, id string) {
	result, err := rt.runs.GetResult(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) getReport(w http.ResponseWriter, r *http.Request, id string, writer ReportWriter, contentType, filename string) {
	if writer == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report format not available"})
		return
	}
	result, err := rt.runs.GetResult(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := writer.Write(result, w); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("write report", "run_id", id, "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
