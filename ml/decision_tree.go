package ml

import (
	"errors"
	"fmt"
)

// DecisionTree evaluates a tree exported from scikit-learn's tree_ arrays.
type DecisionTree struct {
	Classes []int      `json:"classes"`
	Nodes   []TreeNode `json:"nodes"`
}

// TreeNode is one entry of the flattened tree. Leaves have Left == -1 and carry the
// per-class sample weights in Value.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

func (n TreeNode) isLeaf() bool {
	return n.Left == -1
}

func (dt *DecisionTree) Predict(features []float64) (int, error) {
	proba, err := dt.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return dt.Classes[argmax(proba)], nil
}

func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	leaf, err := dt.leaf(features)
	if err != nil {
		return nil, err
	}
	return normalize(leaf.Value), nil
}

func (dt *DecisionTree) leaf(features []float64) (TreeNode, error) {
	if len(dt.Nodes) == 0 {
		return TreeNode{}, errors.New("tree has no nodes")
	}
	if len(features) != FeatureCount {
		return TreeNode{}, fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}
	idx := 0
	// a valid tree reaches a leaf in at most len(Nodes) steps
	for steps := 0; steps <= len(dt.Nodes); steps++ {
		node := dt.Nodes[idx]
		if node.isLeaf() {
			return node, nil
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return TreeNode{}, errors.New("invalid tree state")
}

// validate checks the structure once at load so Predict never indexes out of range.
func (dt *DecisionTree) validate() error {
	if err := checkClasses(dt.Classes); err != nil {
		return err
	}
	if len(dt.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, node := range dt.Nodes {
		if node.isLeaf() {
			if len(node.Value) != len(dt.Classes) {
				return fmt.Errorf("node %d: expected %d class weights, got %d", i, len(dt.Classes), len(node.Value))
			}
			total := 0.0
			for _, w := range node.Value {
				if w < 0 {
					return fmt.Errorf("node %d: negative class weight", i)
				}
				total += w
			}
			if total == 0 {
				return fmt.Errorf("node %d: empty leaf", i)
			}
			continue
		}
		if node.Feature < 0 || node.Feature >= FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.Feature)
		}
		if node.Left <= i || node.Left >= len(dt.Nodes) || node.Right <= i || node.Right >= len(dt.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

func normalize(weights []float64) []float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	out := make([]float64, len(weights))
	if total == 0 {
		return out
	}
	for i, w := range weights {
		out[i] = w / total
	}
	return out
}
