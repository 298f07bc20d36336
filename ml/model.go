package ml

import (
	"errors"
	"fmt"
	"math"
)

// BinaryClasses is the class list every artifact must declare, in probability column order.
var BinaryClasses = []int{0, 1}

var (
	ErrModelNotLoaded   = errors.New("Model not loaded")
	ErrUnsupportedModel = errors.New("unsupported model type")
)

// Classifier is a trained binary estimator. Predict returns the discrete class and
// PredictProba the probability of each class in BinaryClasses order.
type Classifier interface {
	Predict(features []float64) (int, error)
	PredictProba(features []float64) ([]float64, error)
}

// Prediction is a classifier's answer for one feature vector.
type Prediction struct {
	Label         int
	Probabilities []float64
}

// Confidence is the probability assigned to the predicted label, as a percentage.
func (p Prediction) Confidence() float64 {
	if p.Label < 0 || p.Label >= len(p.Probabilities) {
		return 0
	}
	return p.Probabilities[p.Label] * 100
}

func checkClasses(classes []int) error {
	if len(classes) != len(BinaryClasses) {
		return fmt.Errorf("expected classes %v, got %v", BinaryClasses, classes)
	}
	for i, c := range classes {
		if c != BinaryClasses[i] {
			return fmt.Errorf("expected classes %v, got %v", BinaryClasses, classes)
		}
	}
	return nil
}

func checkProbabilities(proba []float64) error {
	if len(proba) != len(BinaryClasses) {
		return fmt.Errorf("expected %d probabilities, got %d", len(BinaryClasses), len(proba))
	}
	for _, p := range proba {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("probability %v out of range", p)
		}
	}
	return nil
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
