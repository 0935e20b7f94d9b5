package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/epaforecast/internal/api/handlers"
	"github.com/wonny/epaforecast/internal/metrics"
	"github.com/wonny/epaforecast/pkg/logger"
)

// Routes groups the handlers mounted by NewRouter
type Routes struct {
	Model    *handlers.ModelHandler
	Pipeline *handlers.PipelineHandler
	Events   http.HandlerFunc // nil = /ws/pipeline 비활성
	Metrics  bool
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(routes Routes, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)
	if routes.Metrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
	if routes.Events != nil {
		r.HandleFunc("/ws/pipeline", routes.Events).Methods(http.MethodGet)
	}

	// 서브라우터는 메서드 불일치를 404로 보고 → /api 경로는 루트에 직접 등록 (405 유지)

	// Model (S3 output)
	r.HandleFunc("/api/model", routes.Model.GetModel).Methods(http.MethodGet)
	r.HandleFunc("/api/model/runs", routes.Model.ListRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/predict", routes.Model.Predict).Methods(http.MethodPost)

	// Pipeline (S0 → S3)
	r.HandleFunc("/api/pipeline/run", routes.Pipeline.Run).Methods(http.MethodPost)
	r.HandleFunc("/api/pipeline/status", routes.Pipeline.Status).Methods(http.MethodGet)

	// recovery가 가장 안쪽: 패닉도 500으로 기록됨
	r.Use(loggingMiddleware(log.WithField("module", "api")))
	r.Use(recoveryMiddleware(log))

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "epaforecast-api",
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusRecorder captures the response code; Hijack passes through for websockets
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// loggingMiddleware logs requests and counts them per route template
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware turns handler panics into a 500 JSON response
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")
					writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
