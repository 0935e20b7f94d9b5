package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epaforecast_stage_duration_seconds",
		Help:    "Duration of pipeline stages.",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	StageRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epaforecast_stage_runs_total", Help: "Pipeline stage executions by result.",
	}, []string{"stage", "result"})

	StageRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "epaforecast_stage_output_rows", Help: "Rows written by the last run of each stage.",
	}, []string{"stage"})

	PipelineRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epaforecast_pipeline_running", Help: "1 while a pipeline run is in progress.",
	})

	ModelAccuracy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epaforecast_model_accuracy", Help: "Test-split accuracy of the last trained model.",
	})

	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epaforecast_predictions_total", Help: "Predictions served by label.",
	}, []string{"label"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epaforecast_http_requests_total", Help: "API requests by route and status code.",
	}, []string{"method", "route", "code"})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epaforecast_websocket_clients", Help: "Connected pipeline event subscribers.",
	})
)

// Result label values
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)
