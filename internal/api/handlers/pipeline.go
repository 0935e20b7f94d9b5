package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/wonny/epaforecast/internal/brain"
	"github.com/wonny/epaforecast/pkg/logger"
)

// PipelineRunner runs the pipeline and reports its state
type PipelineRunner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
	Running() bool
	LastResult() *brain.RunResult
}

// PipelineHandler handles pipeline-related API endpoints
// ⭐ SSOT: 파이프라인 API 핸들러는 여기서만
type PipelineHandler struct {
	runner PipelineRunner
	logger *logger.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(runner PipelineRunner, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		runner: runner,
		logger: log,
	}
}

// RunRequest is the body of POST /api/pipeline/run
type RunRequest struct {
	SkipAcquire bool   `json:"skip_acquire"`
	RawPath     string `json:"raw_path"`
	Wait        bool   `json:"wait"` // true = 완료까지 대기 후 결과 반환
}

// StatusResponse is the body of GET /api/pipeline/status
type StatusResponse struct {
	Running bool             `json:"running"`
	Last    *brain.RunResult `json:"last,omitempty"`
}

// Run starts a pipeline run
// POST /api/pipeline/run
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	config := brain.RunConfig{
		RunID:       brain.GenerateRunID(time.Now()),
		SkipAcquire: req.SkipAcquire,
		RawPath:     req.RawPath,
	}

	if req.Wait {
		result, err := h.runner.Run(r.Context(), config)
		switch {
		case errors.Is(err, brain.ErrRunInProgress):
			respondError(w, http.StatusConflict, err.Error())
		case err != nil:
			respondJSON(w, http.StatusUnprocessableEntity, result)
		default:
			respondJSON(w, http.StatusOK, result)
		}
		return
	}

	if h.runner.Running() {
		respondError(w, http.StatusConflict, brain.ErrRunInProgress.Error())
		return
	}

	// 요청 컨텍스트와 분리: 응답 후에도 실행 계속
	go func() {
		if _, err := h.runner.Run(context.Background(), config); err != nil {
			h.logger.WithError(err).WithField("run_id", config.RunID).Warn("Background pipeline run failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"run_id": config.RunID,
	})
}

// Status returns whether a run is active and the last result
// GET /api/pipeline/status
func (h *PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatusResponse{
		Running: h.runner.Running(),
		Last:    h.runner.LastResult(),
	})
}
