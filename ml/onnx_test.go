package ml

import (
	"strings"
	"testing"
)

func TestONNXModelClosed(t *testing.T) {
	m := &ONNXModel{}
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if _, err := m.Predict(sampleVector().Slice()); err == nil || !strings.Contains(err.Error(), "session closed") {
		t.Fatalf("expected session closed error, got %v", err)
	}
	if _, err := m.PredictProba(sampleVector().Slice()); err == nil || !strings.Contains(err.Error(), "session closed") {
		t.Fatalf("expected session closed error, got %v", err)
	}
	if _, err := m.Predict([]float64{1}); err == nil || !strings.Contains(err.Error(), "expected 13 features") {
		t.Fatalf("expected width error, got %v", err)
	}

	// closing twice is a no-op
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected second close error: %v", err)
	}
}

func TestONNXConfigDefaults(t *testing.T) {
	cfg := ONNXConfig{LabelOutput: "label"}.withDefaults()
	if cfg.InputName != "float_input" {
		t.Errorf("expected default input name, got %q", cfg.InputName)
	}
	if cfg.LabelOutput != "label" {
		t.Errorf("expected configured label output to be kept, got %q", cfg.LabelOutput)
	}
	if cfg.ProbabilityOutput != "output_probability" {
		t.Errorf("expected default probability output, got %q", cfg.ProbabilityOutput)
	}
}
