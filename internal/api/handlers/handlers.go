package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/apeksha07/insurance-advisor/internal/api/middleware"
	"github.com/apeksha07/insurance-advisor/internal/engine"
	"github.com/apeksha07/insurance-advisor/internal/jobs"
)

// maxUploadBytes bounds statement uploads.
const maxUploadBytes = 32 << 20

// AnalysisHandler handles statement analysis endpoints.
type AnalysisHandler struct {
	engine    *engine.Engine
	publisher jobs.Publisher
	store     jobs.JobStore
	uploadDir string
	log       zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler. uploadDir is where
// async uploads are staged until their job picks them up.
func NewAnalysisHandler(eng *engine.Engine, publisher jobs.Publisher, store jobs.JobStore, uploadDir string, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		engine:    eng,
		publisher: publisher,
		store:     store,
		uploadDir: uploadDir,
		log:       log,
	}
}

// RegisterRoutes sets up the analysis routes.
func (h *AnalysisHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/analyze", h.Analyze)
	mux.HandleFunc("POST /api/analyses", h.CreateAnalysis)
	mux.HandleFunc("GET /api/analyses/{id}", h.GetAnalysis)
	mux.HandleFunc("GET /api/analyses", h.ListAnalyses)
}

// Health handles GET /api/health.
func (h *AnalysisHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze handles POST /api/analyze: synchronous analysis of an uploaded
// statement CSV. Input validation happens here, at the boundary; the engine
// itself degrades instead of rejecting.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	data, _, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	report, err := h.engine.Analyze(r.Context(), bytes.NewReader(data))
	if err != nil {
		h.log.Error().Err(err).Msg("Analysis failed")
		middleware.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report)
}

// createAnalysisRequest is the JSON body for analyzing a statement already
// stored in GCS.
type createAnalysisRequest struct {
	GCSURI string `json:"gcs_uri"`
}

// CreateAnalysis handles POST /api/analyses: enqueue an asynchronous
// analysis of an uploaded file or a gs:// URI.
func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var sourceURI, filename string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req createAnalysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !strings.HasPrefix(req.GCSURI, "gs://") {
			middleware.WriteError(w, http.StatusBadRequest, "gcs_uri must be a gs:// URI")
			return
		}
		sourceURI = req.GCSURI
		filename = filepath.Base(req.GCSURI)
	} else {
		data, name, ok := h.readUpload(w, r)
		if !ok {
			return
		}
		staged, err := h.stageUpload(data)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to stage upload")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to stage uploaded file")
			return
		}
		sourceURI = staged
		filename = name
	}

	job := &jobs.AnalysisJob{
		SourceURI: sourceURI,
		Filename:  filename,
		Staged:    !strings.HasPrefix(sourceURI, "gs://"),
	}
	if err := h.publisher.PublishAnalysis(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to publish analysis job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue analysis")
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// GetAnalysis handles GET /api/analyses/{id}.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	job, err := h.store.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Analysis not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListAnalyses handles GET /api/analyses.
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list analyses")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": list,
		"count":    len(list),
	})
}

// readUpload extracts and validates the multipart CSV upload. Returns
// ok=false after writing the error response.
func (h *AnalysisHandler) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "A CSV file upload named 'file' is required")
		return nil, "", false
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		middleware.WriteError(w, http.StatusBadRequest, "Only CSV files are supported")
		return nil, "", false
	}

	data, err = io.ReadAll(file)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, "", false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Uploaded file is empty")
		return nil, "", false
	}

	return data, header.Filename, true
}

// stageUpload writes async upload bytes to the staging directory and returns
// the staged path, which becomes the job's source URI.
func (h *AnalysisHandler) stageUpload(data []byte) (string, error) {
	f, err := os.CreateTemp(h.uploadDir, "statement-*.csv")
	if err != nil {
		return "", fmt.Errorf("stageUpload: create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stageUpload: write temp file: %w", err)
	}
	return f.Name(), nil
}
