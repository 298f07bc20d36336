package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cardioml/ml"
	"cardioml/monitoring"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		model  ml.Classifier
		status string
		loaded bool
	}{
		{name: "loaded", model: &fakeModel{proba: []float64{1, 0}}, status: "ok", loaded: true},
		{name: "empty", model: nil, status: "degraded", loaded: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(tt.model)
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var payload map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if payload["status"] != tt.status || payload["model_loaded"] != tt.loaded {
				t.Fatalf("unexpected health payload: %v", payload)
			}
		})
	}
}

func TestIndexServesLandingPage(t *testing.T) {
	h, _ := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), `id="predictionForm"`) {
		t.Fatal("expected the prediction form")
	}

	req = httptest.NewRequest(http.MethodGet, "/static/script.js", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/predict") {
		t.Fatalf("expected script to be served, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	h, _ := newTestHandler(&fakeModel{label: 0, proba: []float64{0.5, 0.5}})

	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(samplePayload))
	req.Header.Set("Origin", "https://example.org")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin on POST, got %q", got)
	}
}

func TestCORSRestrictedOrigins(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.AllowedOrigins = []string{"https://clinic.example"}
	h := NewHandler(cfg, ml.NewHolder(nil, 0), monitoring.NewMetricsCollector(), zap.NewNop())

	for origin, want := range map[string]string{
		"https://clinic.example": "https://clinic.example",
		"https://evil.example":   "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != want {
			t.Fatalf("origin %s: expected %q, got %q", origin, want, got)
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	h, metrics := newTestHandler(&fakeModel{label: 1, proba: []float64{0.5, 0.5}})
	postPredict(t, h, samplePayload)

	if got := metrics.Value("http_requests_total", map[string]string{"route": "POST /predict", "status": "200"}); got != 1 {
		t.Fatalf("expected 1 request recorded, got %v", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics?format=prometheus", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `predictions_total{label="1"} 1`) {
		t.Fatalf("unexpected metrics output:\n%s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := payload["metrics"]; !ok {
		t.Fatalf("expected metrics key, got %v", payload)
	}
}

func TestRegisterHandlersServesEmbeddedAssets(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux, &Handler{holder: ml.NewHolder(nil, 0), metrics: monitoring.NewMetricsCollector(), logger: zap.NewNop()})

	for _, path := range []string{"/static/style.css", "/static/script.js"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.Len() == 0 {
			t.Fatalf("%s: expected non-empty 200, got %d", path, w.Code)
		}
	}
}
