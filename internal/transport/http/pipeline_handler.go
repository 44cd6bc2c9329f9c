// Package http exposes the pipeline over HTTP: a run trigger, a health
// endpoint and the websocket upgrade for progress streaming.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"edulake/internal/config"
	"edulake/internal/errors"
	"edulake/internal/pipeline"
)

// PipelineRunner triggers one pipeline run.
type PipelineRunner interface {
	Run(ctx context.Context, ingestDate string) (*pipeline.Summary, error)
}

// PipelineHandler handles pipeline trigger requests.
type PipelineHandler struct {
	runner            PipelineRunner
	defaultIngestDate func() string
	logger            *slog.Logger
}

// NewPipelineHandler creates a pipeline handler. defaultIngestDate supplies
// the partition date when the request does not name one.
func NewPipelineHandler(runner PipelineRunner, defaultIngestDate func() string, logger *slog.Logger) *PipelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultIngestDate == nil {
		defaultIngestDate = func() string {
			return time.Now().Format(config.IngestDateFormat)
		}
	}

	return &PipelineHandler{
		runner:            runner,
		defaultIngestDate: defaultIngestDate,
		logger:            logger.With(slog.String("component", "pipeline_handler")),
	}
}

// Routes returns the pipeline routes. The trigger accepts GET and POST so it
// works from a browser as well as from schedulers.
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/run", h.Run)
	r.Post("/run", h.Run)
	return r
}

type runRequest struct {
	IngestDate string `json:"ingest_date"`
}

type runResponse struct {
	Status  string            `json:"status"`
	Outputs *pipeline.Summary `json:"outputs,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Run triggers a full bronze-to-gold pass and reports the written tables.
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	ingestDate, apiErr := h.resolveIngestDate(r)
	if apiErr != nil {
		render.Status(r, apiErr.StatusCode)
		render.JSON(w, r, apiErr)
		return
	}

	summary, err := h.runner.Run(r.Context(), ingestDate)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "pipeline run failed",
			slog.String("ingest_date", ingestDate),
			slog.String("error", err.Error()))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, runResponse{Status: "error", Message: err.Error()})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, runResponse{Status: "ok", Outputs: summary})
}

// resolveIngestDate reads the ingest date from the query string or JSON body,
// falling back to the configured default.
func (h *PipelineHandler) resolveIngestDate(r *http.Request) (string, *errors.APIError) {
	ingestDate := r.URL.Query().Get("ingest_date")

	if ingestDate == "" && r.Method == http.MethodPost && r.Body != nil {
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			ingestDate = req.IngestDate
		}
	}

	if ingestDate == "" {
		return h.defaultIngestDate(), nil
	}

	if _, err := time.Parse(config.IngestDateFormat, ingestDate); err != nil {
		return "", errors.ErrValidation("ingest_date", "must be formatted YYYY-MM-DD")
	}

	return ingestDate, nil
}
