package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	TypeLogisticRegression = "logistic_regression"
	TypeDecisionTree       = "decision_tree"
	TypeRandomForest       = "random_forest"
	TypeONNX               = "onnx"
)

type envelope struct {
	ModelType string `json:"model_type"`
}

// LoadModel deserializes the artifact at path. An empty modelType is inferred from the
// file: ".onnx" files are ONNX graphs, anything else must be a JSON export carrying a
// model_type field.
func LoadModel(modelType, path string, onnxCfg ONNXConfig) (Classifier, string, error) {
	if modelType == "" && strings.EqualFold(filepath.Ext(path), ".onnx") {
		modelType = TypeONNX
	}
	if modelType == TypeONNX {
		if _, err := os.Stat(path); err != nil {
			return nil, modelType, err
		}
		model, err := NewONNXModel(path, onnxCfg)
		if err != nil {
			return nil, modelType, err
		}
		return model, modelType, nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, modelType, err
	}
	if modelType == "" {
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, modelType, fmt.Errorf("failed to parse model: %w", err)
		}
		modelType = env.ModelType
	}

	switch modelType {
	case TypeLogisticRegression:
		model := &LogisticRegression{}
		return decodeJSON(payload, model, model.validate, modelType)
	case TypeDecisionTree:
		model := &DecisionTree{}
		return decodeJSON(payload, model, model.validate, modelType)
	case TypeRandomForest:
		model := &RandomForest{}
		return decodeJSON(payload, model, model.validate, modelType)
	default:
		return nil, modelType, fmt.Errorf("%w: %q", ErrUnsupportedModel, modelType)
	}
}

func decodeJSON(payload []byte, model Classifier, validate func() error, modelType string) (Classifier, string, error) {
	if err := json.Unmarshal(payload, model); err != nil {
		return nil, modelType, fmt.Errorf("failed to parse %s: %w", modelType, err)
	}
	if err := validate(); err != nil {
		return nil, modelType, fmt.Errorf("invalid %s: %w", modelType, err)
	}
	return model, modelType, nil
}
