package ml

import (
	"fmt"
	"io"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Config selects the artifact the holder loads at startup.
type Config struct {
	ModelType string     `yaml:"model_type"`
	ModelPath string     `yaml:"model_path"`
	CacheSize int        `yaml:"cache_size"`
	Watch     bool       `yaml:"watch"`
	ONNX      ONNXConfig `yaml:"onnx"`
}

// ModelInfo describes the loaded artifact.
type ModelInfo struct {
	Type     string    `json:"type,omitempty"`
	Path     string    `json:"path,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// Holder owns the single classifier for the lifetime of the process. It is never
// mutated after construction, so it can be shared by every request goroutine.
type Holder struct {
	model Classifier
	info  ModelInfo
	cache *lru.Cache[FeatureVector, Prediction]
}

// Load reads the configured artifact once. A failure is logged and yields an empty
// holder; there is no retry.
func Load(cfg Config, logger *zap.Logger) *Holder {
	model, modelType, err := LoadModel(cfg.ModelType, cfg.ModelPath, cfg.ONNX)
	if err != nil {
		logger.Error("Error loading model",
			zap.String("path", cfg.ModelPath),
			zap.String("type", modelType),
			zap.Error(err))
		return NewHolder(nil, 0)
	}

	h := NewHolder(model, cfg.CacheSize)
	h.info = ModelInfo{Type: modelType, Path: cfg.ModelPath, LoadedAt: time.Now().UTC()}
	logger.Info("Model loaded successfully",
		zap.String("path", cfg.ModelPath),
		zap.String("type", modelType),
		zap.Int("cache_size", cfg.CacheSize))
	return h
}

// NewHolder wraps an already constructed classifier. A nil model gives an empty holder.
// cacheSize <= 0 disables the prediction cache.
func NewHolder(model Classifier, cacheSize int) *Holder {
	h := &Holder{model: model}
	if model != nil && cacheSize > 0 {
		// only fails for non-positive sizes
		h.cache, _ = lru.New[FeatureVector, Prediction](cacheSize)
	}
	return h
}

func (h *Holder) Loaded() bool {
	return h != nil && h.model != nil
}

func (h *Holder) Info() ModelInfo {
	if h == nil {
		return ModelInfo{}
	}
	return h.info
}

// Predict runs both the class and probability estimators on v. The returned
// probabilities are indexed by class label.
func (h *Holder) Predict(v FeatureVector) (Prediction, error) {
	if !h.Loaded() {
		return Prediction{}, ErrModelNotLoaded
	}
	if h.cache != nil {
		if p, ok := h.cache.Get(v); ok {
			return p.clone(), nil
		}
	}

	x := v.Slice()
	label, err := h.model.Predict(x)
	if err != nil {
		return Prediction{}, fmt.Errorf("predict: %w", err)
	}
	proba, err := h.model.PredictProba(x)
	if err != nil {
		return Prediction{}, fmt.Errorf("predict proba: %w", err)
	}
	if label != BinaryClasses[0] && label != BinaryClasses[1] {
		return Prediction{}, fmt.Errorf("predict: unexpected label %d", label)
	}
	if err := checkProbabilities(proba); err != nil {
		return Prediction{}, fmt.Errorf("predict proba: %w", err)
	}

	p := Prediction{Label: label, Probabilities: proba}
	if h.cache != nil {
		h.cache.Add(v, p.clone())
	}
	return p, nil
}

// Close releases backend resources held by the classifier, if any.
func (h *Holder) Close() error {
	if !h.Loaded() {
		return nil
	}
	if c, ok := h.model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p Prediction) clone() Prediction {
	p.Probabilities = append([]float64(nil), p.Probabilities...)
	return p
}
