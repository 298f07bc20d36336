package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a binary linear model, optionally preceded by a standard scaler.
// Coef has the scikit-learn shape (1, FeatureCount).
type LogisticRegression struct {
	Classes   []int          `json:"classes"`
	Coef      [][]float64    `json:"coef"`
	Intercept []float64      `json:"intercept"`
	Scaler    *StandardScale `json:"scaler,omitempty"`

	weights *mat.VecDense
}

// StandardScale holds the per-feature mean and scale of a fitted StandardScaler.
type StandardScale struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (lr *LogisticRegression) Predict(features []float64) (int, error) {
	z, err := lr.decision(features)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return lr.Classes[1], nil
	}
	return lr.Classes[0], nil
}

func (lr *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	z, err := lr.decision(features)
	if err != nil {
		return nil, err
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func (lr *LogisticRegression) decision(features []float64) (float64, error) {
	if lr.weights == nil {
		return 0, errors.New("model not initialised")
	}
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}
	x := mat.NewVecDense(FeatureCount, nil)
	for i, v := range features {
		if lr.Scaler != nil {
			v = (v - lr.Scaler.Mean[i]) / lr.Scaler.Scale[i]
		}
		x.SetVec(i, v)
	}
	return mat.Dot(lr.weights, x) + lr.Intercept[0], nil
}

func (lr *LogisticRegression) validate() error {
	if err := checkClasses(lr.Classes); err != nil {
		return err
	}
	if len(lr.Coef) != 1 || len(lr.Coef[0]) != FeatureCount {
		return fmt.Errorf("coef must have shape (1, %d)", FeatureCount)
	}
	if len(lr.Intercept) != 1 {
		return errors.New("intercept must have exactly one value")
	}
	if s := lr.Scaler; s != nil {
		if len(s.Mean) != FeatureCount || len(s.Scale) != FeatureCount {
			return fmt.Errorf("scaler must have %d means and scales", FeatureCount)
		}
		for i, v := range s.Scale {
			if v == 0 {
				return fmt.Errorf("scaler: zero scale for %s", FeatureNames[i])
			}
		}
	}
	lr.weights = mat.NewVecDense(FeatureCount, append([]float64(nil), lr.Coef[0]...))
	return nil
}

// sigmoid is split by sign so large |z| never overflows exp.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
