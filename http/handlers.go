package http

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"cardioml/ml"
	"cardioml/monitoring"
)

//go:embed static
var staticFiles embed.FS

// Handler serves the prediction API on top of a read-only model holder.
type Handler struct {
	holder  *ml.Holder
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

func RegisterHandlers(mux *http.ServeMux, h *Handler) {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// static/ is embedded at build time
		panic(err)
	}

	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /metrics", h.handleMetrics)
	mux.HandleFunc("POST /predict", h.handlePredict)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "landing page unavailable", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.holder.Loaded() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"model_loaded": h.holder.Loaded(),
		"model":        h.holder.Info(),
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "prometheus" {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.Write([]byte(h.metrics.ExportPrometheus()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"system":  h.metrics.GetSystemStats(),
		"metrics": h.metrics.Snapshot(),
	})
}

// ErrorResponse is the body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details []ml.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, details []ml.FieldError) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}
