package ml

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXConfig names the graph inputs and outputs of an skl2onnx export.
type ONNXConfig struct {
	LibraryPath       string `yaml:"library_path"`
	InputName         string `yaml:"input_name"`
	LabelOutput       string `yaml:"label_output"`
	ProbabilityOutput string `yaml:"probability_output"`
}

func (c ONNXConfig) withDefaults() ONNXConfig {
	if c.InputName == "" {
		c.InputName = "float_input"
	}
	if c.LabelOutput == "" {
		c.LabelOutput = "output_label"
	}
	if c.ProbabilityOutput == "" {
		c.ProbabilityOutput = "output_probability"
	}
	return c
}

// ONNXModel runs an exported classifier through onnxruntime. The session reuses a
// single set of tensors, so runs are serialized.
type ONNXModel struct {
	mu          sync.Mutex
	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	label       *ort.Tensor[int64]
	probability *ort.Tensor[float32]
}

// NewONNXModel initializes the runtime environment and opens the graph at path.
func NewONNXModel(path string, cfg ONNXConfig) (*ONNXModel, error) {
	cfg = cfg.withDefaults()
	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	m := &ONNXModel{}
	var err error
	m.input, err = ort.NewEmptyTensor[float32](ort.NewShape(1, FeatureCount))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	m.label, err = ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("failed to create label tensor: %w", err)
	}
	m.probability, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(BinaryClasses))))
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("failed to create probability tensor: %w", err)
	}

	m.session, err = ort.NewAdvancedSession(path,
		[]string{cfg.InputName}, []string{cfg.LabelOutput, cfg.ProbabilityOutput},
		[]ort.ArbitraryTensor{m.input}, []ort.ArbitraryTensor{m.label, m.probability},
		nil)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	return m, nil
}

func (m *ONNXModel) Predict(features []float64) (int, error) {
	label, _, err := m.run(features)
	return label, err
}

func (m *ONNXModel) PredictProba(features []float64) ([]float64, error) {
	_, proba, err := m.run(features)
	return proba, err
}

func (m *ONNXModel) run(features []float64) (int, []float64, error) {
	if len(features) != FeatureCount {
		return 0, nil, fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0, nil, errors.New("session closed")
	}

	in := m.input.GetData()
	for i, v := range features {
		in[i] = float32(v)
	}
	if err := m.session.Run(); err != nil {
		return 0, nil, fmt.Errorf("inference failed: %w", err)
	}

	raw := m.probability.GetData()
	proba := make([]float64, len(raw))
	for i, p := range raw {
		proba[i] = float64(p)
	}
	return int(m.label.GetData()[0]), proba, nil
}

// Close releases the session and tensors. The process-wide environment is left
// initialized.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if m.session != nil {
		errs = append(errs, m.session.Destroy())
		m.session = nil
	}
	if m.input != nil {
		errs = append(errs, m.input.Destroy())
		m.input = nil
	}
	if m.label != nil {
		errs = append(errs, m.label.Destroy())
		m.label = nil
	}
	if m.probability != nil {
		errs = append(errs, m.probability.Destroy())
		m.probability = nil
	}
	return errors.Join(errs...)
}
