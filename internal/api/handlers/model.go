package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/forecast"
	"github.com/wonny/epaforecast/internal/metrics"
	"github.com/wonny/epaforecast/pkg/logger"
)

// RunLister lists recorded training runs
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]forecast.RunSummary, error)
}

// ModelHandler serves the persisted model
// ⭐ SSOT: 모델 조회/예측 API 핸들러는 여기서만
type ModelHandler struct {
	modelPath string
	runs      RunLister // nil = DB 미설정
	logger    *logger.Logger
}

// NewModelHandler creates a new model handler
func NewModelHandler(modelPath string, runs RunLister, log *logger.Logger) *ModelHandler {
	return &ModelHandler{
		modelPath: modelPath,
		runs:      runs,
		logger:    log,
	}
}

// PredictRequest carries either named features or a full weekly record
type PredictRequest struct {
	Features map[string]float64        `json:"features,omitempty"`
	Record   *contracts.WeeklyQBRecord `json:"record,omitempty"`
}

// PredictResponse is a scored request
type PredictResponse struct {
	contracts.Prediction
	Threshold float64 `json:"threshold"`
}

// GetModel returns the persisted model artifact
// GET /api/model
func (h *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	artifact, ok := h.load(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, artifact)
}

// Predict scores one row with the persisted model
// POST /api/predict
func (h *ModelHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Features == nil && req.Record == nil {
		respondError(w, http.StatusBadRequest, "features or record is required")
		return
	}

	artifact, ok := h.load(w)
	if !ok {
		return
	}
	predictor := forecast.NewPredictor(artifact, h.logger.Zerolog())

	var (
		pred contracts.Prediction
		err  error
	)
	if req.Record != nil {
		pred, err = predictor.PredictRecord(*req.Record)
	} else {
		pred, err = predictor.PredictNamed(req.Features)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.Predictions.WithLabelValues(strconv.Itoa(pred.Label)).Inc()
	respondJSON(w, http.StatusOK, PredictResponse{Prediction: pred, Threshold: artifact.Threshold})
}

// ListRuns returns recent training runs from the registry
// GET /api/model/runs?limit=20
func (h *ModelHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusServiceUnavailable, "Run registry not configured")
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := h.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list model runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve model runs")
		return
	}
	if runs == nil {
		runs = []forecast.RunSummary{}
	}
	respondJSON(w, http.StatusOK, runs)
}

func (h *ModelHandler) load(w http.ResponseWriter) (*contracts.ModelArtifact, bool) {
	artifact, err := forecast.LoadArtifact(h.modelPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondError(w, http.StatusNotFound, "Model not trained yet")
			return nil, false
		}
		h.logger.WithError(err).Error("Failed to load model artifact")
		respondError(w, http.StatusInternalServerError, "Failed to load model")
		return nil, false
	}
	return artifact, true
}
