package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cardioml/ml"
)

const payload = `{"age":63,"sex":1,"cp":3,"trestbps":145,"chol":233,"fbs":1,"restecg":0,"thalach":150,"exang":0,"oldpeak":2.3,"slope":0,"ca":0,"thal":1}`

func stumpHolder() *ml.Holder {
	return ml.NewHolder(&ml.DecisionTree{
		Classes: []int{0, 1},
		Nodes:   []ml.TreeNode{{Feature: -2, Left: -1, Right: -1, Value: []float64{1, 3}}},
	}, 0)
}

func TestRunFromStdin(t *testing.T) {
	var out bytes.Buffer
	if err := run(stumpHolder(), "-", strings.NewReader(payload), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result ml.Result
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if result.Prediction != 1 || result.Confidence != 75 || result.Recommendation != ml.RiskRecommendation {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patient.json")
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(stumpHolder(), path, strings.NewReader(""), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"prediction": 1`) {
		t.Fatalf("unexpected output %s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	if err := run(ml.NewHolder(nil, 0), "-", strings.NewReader(payload), &out); !errors.Is(err, ml.ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}

	var verr *ml.ValidationError
	if err := run(stumpHolder(), "-", strings.NewReader(`{"age":63}`), &out); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := run(stumpHolder(), filepath.Join(t.TempDir(), "absent.json"), nil, &out); err == nil {
		t.Fatal("expected error for missing input file")
	}
}
