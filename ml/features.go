package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FeatureCount is the number of inputs every classifier is trained on.
const FeatureCount = 13

// FeatureNames lists the request fields in the column order the model was trained on.
// Reordering this slice silently corrupts predictions.
var FeatureNames = [FeatureCount]string{
	"age",
	"sex",
	"cp",
	"trestbps",
	"chol",
	"fbs",
	"restecg",
	"thalach",
	"exang",
	"oldpeak",
	"slope",
	"ca",
	"thal",
}

// FeatureVector is one patient's inputs in model column order.
type FeatureVector [FeatureCount]float64

// Slice returns a copy of the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

// Map returns the vector keyed by feature name.
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, FeatureCount)
	for i, name := range FeatureNames {
		out[name] = v[i]
	}
	return out
}

// FieldError describes one missing or unconvertible request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError aggregates every field problem found in a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid payload"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return strings.Join(parts, "; ")
}

var errNotNumber = errors.New("must be a number")

// DecodeFeatures reads a JSON object and returns the feature vector in model order.
// Malformed JSON is returned as the decoder's error; field problems come back as a
// *ValidationError listing every offending field.
func DecodeFeatures(r io.Reader) (FeatureVector, error) {
	dec := json.NewDecoder(r)
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return FeatureVector{}, err
	}
	if raw == nil {
		return FeatureVector{}, errors.New("request body must be a JSON object")
	}
	switch err := dec.Decode(&struct{}{}); {
	case err == nil:
		return FeatureVector{}, errors.New("request body must contain a single JSON object")
	case !errors.Is(err, io.EOF):
		return FeatureVector{}, err
	}
	return ParseFeatures(raw)
}

// ParseFeatures converts an already split JSON object into a feature vector.
func ParseFeatures(raw map[string]json.RawMessage) (FeatureVector, error) {
	var (
		vec    FeatureVector
		fields []FieldError
	)
	for i, name := range FeatureNames {
		value, ok := raw[name]
		if !ok {
			fields = append(fields, FieldError{Field: name, Message: "missing required field"})
			continue
		}
		f, err := toFloat(value)
		if err != nil {
			fields = append(fields, FieldError{Field: name, Message: err.Error()})
			continue
		}
		vec[i] = f
	}
	if len(fields) > 0 {
		return FeatureVector{}, &ValidationError{Fields: fields}
	}
	return vec, nil
}

// toFloat mirrors a lenient float() coercion: numbers, numeric strings and booleans.
func toFloat(value json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return 0, errNotNumber
	}

	var f float64
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, err
		}
		parsed, err := parseNumericString(strings.TrimSpace(s))
		if err != nil {
			return 0, err
		}
		f = parsed
	case 't':
		f = 1
	case 'f':
		f = 0
	case 'n', '[', '{':
		return 0, errNotNumber
	default:
		parsed, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not a finite number", f)
	}
	return f, nil
}

// parseNumericString accepts decimal spellings only: underscores must sit between
// digits and hex floats are refused.
func parseNumericString(s string) (float64, error) {
	syntaxErr := &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return 0, syntaxErr
	}
	if strings.Contains(s, "_") {
		for i := 0; i < len(s); i++ {
			if s[i] == '_' && (i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1])) {
				return 0, syntaxErr
			}
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	return strconv.ParseFloat(s, 64)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
