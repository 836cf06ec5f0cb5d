package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"chartsnap-backend/internal/domain"
	"chartsnap-backend/internal/progress"
	"chartsnap-backend/internal/usecase"
)

// Defaults applied when the request body omits a parameter.
const (
	defaultFetchLimit  = 200
	defaultFetchSource = domain.SourceBoth
)

// CompletionNotifier pushes a notice once a fetch job finished. Optional.
type CompletionNotifier interface {
	NotifyJobComplete(ctx context.Context, jobID, versionID string, processedPairs int) error
}

// FetchHandler starts fetch/capture jobs. Each job gets its own progress log
// file named after the job id, and its lines are mirrored to the live hub.
type FetchHandler struct {
	cfg      usecase.FetchJobConfig
	deps     usecase.FetchJobDeps // Logger field is filled per job
	ids      domain.IDGenerator
	clock    domain.Clock
	logsDir  string
	hub      *progress.Hub
	notifier CompletionNotifier
}

func NewFetchHandler(
	cfg usecase.FetchJobConfig,
	deps usecase.FetchJobDeps,
	ids domain.IDGenerator,
	clock domain.Clock,
	logsDir string,
	hub *progress.Hub,
	notifier CompletionNotifier,
) *FetchHandler {
	return &FetchHandler{
		cfg:      cfg,
		deps:     deps,
		ids:      ids,
		clock:    clock,
		logsDir:  logsDir,
		hub:      hub,
		notifier: notifier,
	}
}

type startFetchRequest struct {
	Limit             *int    `json:"limit"`
	Source            *string `json:"source"`
	IncludeAnonymized *bool   `json:"includeAnonymized"`
}

type startFetchResponse struct {
	JobID          string `json:"jobId"`
	VersionID      string `json:"versionId"`
	ProcessedPairs int    `json:"processedPairs"`
}

func (h *FetchHandler) HandleStartFetch(w http.ResponseWriter, r *http.Request) {
	params := domain.FetchJobParams{
		Limit:             defaultFetchLimit,
		Source:            defaultFetchSource,
		IncludeAnonymized: true,
	}

	if r.Body != nil && r.ContentLength != 0 {
		var req startFetchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Limit != nil {
			params.Limit = *req.Limit
		}
		if req.Source != nil {
			params.Source = domain.Source(*req.Source)
		}
		if req.IncludeAnonymized != nil {
			params.IncludeAnonymized = *req.IncludeAnonymized
		}
	}

	if params.Limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be positive")
		return
	}
	if !domain.ValidSource(params.Source) {
		writeError(w, http.StatusBadRequest, "source must be one of cmc, cg, both")
		return
	}

	jobID := h.ids.GenerateID()
	fileLogger := progress.NewFileLogger(filepath.Join(h.logsDir, "fetch-"+jobID+".log"), h.clock)
	defer func() {
		if err := fileLogger.Close(); err != nil {
			slog.Debug("progress log close failed", "job_id", jobID, "error", err)
		}
	}()

	deps := h.deps
	deps.Logger = progress.NewMulti(fileLogger, h.hub)

	slog.Info("fetch job started", "job_id", jobID, "limit", params.Limit, "source", params.Source)

	result, err := usecase.NewFetchJobUsecase(h.cfg, deps).Run(r.Context(), params)
	if err != nil {
		slog.Error("fetch job failed", "job_id", jobID, "error", err)
		writeError(w, http.StatusInternalServerError, "fetch job failed")
		return
	}

	if h.notifier != nil {
		// Detached from the request; a push failure never fails the job.
		go func() {
			if err := h.notifier.NotifyJobComplete(context.Background(), jobID, result.VersionID, result.ProcessedPairs); err != nil {
				slog.Warn("completion notification failed", "job_id", jobID, "error", err)
			}
		}()
	}

	writeJSON(w, http.StatusOK, startFetchResponse{
		JobID:          jobID,
		VersionID:      result.VersionID,
		ProcessedPairs: result.ProcessedPairs,
	})
}
