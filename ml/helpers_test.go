package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// sampleTree splits on age, then cholesterol.
func sampleTree() DecisionTree {
	return DecisionTree{
		Classes: []int{0, 1},
		Nodes: []TreeNode{
			{Feature: 0, Threshold: 50, Left: 1, Right: 2},
			{Feature: -2, Threshold: -2, Left: -1, Right: -1, Value: []float64{8, 2}},
			{Feature: 4, Threshold: 240, Left: 3, Right: 4},
			{Feature: -2, Threshold: -2, Left: -1, Right: -1, Value: []float64{3, 1}},
			{Feature: -2, Threshold: -2, Left: -1, Right: -1, Value: []float64{1, 9}},
		},
	}
}

func sampleVector() FeatureVector {
	return FeatureVector{63, 1, 3, 145, 233, 1, 0, 150, 0, 2.3, 0, 0, 1}
}

func writeArtifact(t *testing.T, name string, v interface{}) string {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}
