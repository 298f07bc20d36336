package ml

import (
	"errors"
	"fmt"
)

// RandomForest averages the class probabilities of its trees.
type RandomForest struct {
	Classes []int          `json:"classes"`
	Trees   []DecisionTree `json:"trees"`
}

func (rf *RandomForest) Predict(features []float64) (int, error) {
	proba, err := rf.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return rf.Classes[argmax(proba)], nil
}

func (rf *RandomForest) PredictProba(features []float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	sum := make([]float64, len(rf.Classes))
	for i := range rf.Trees {
		proba, err := rf.Trees[i].PredictProba(features)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for c, p := range proba {
			sum[c] += p
		}
	}
	n := float64(len(rf.Trees))
	for c := range sum {
		sum[c] /= n
	}
	return sum, nil
}

func (rf *RandomForest) validate() error {
	if err := checkClasses(rf.Classes); err != nil {
		return err
	}
	if len(rf.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range rf.Trees {
		if rf.Trees[i].Classes == nil {
			rf.Trees[i].Classes = rf.Classes
		}
		if err := rf.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
