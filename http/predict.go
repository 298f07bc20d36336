package http

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"cardioml/ml"
)

// handlePredict answers POST /predict. The holder is checked before the body is read.
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !h.holder.Loaded() {
		h.recordFailure("model_unavailable")
		writeError(w, http.StatusInternalServerError, ml.ErrModelNotLoaded.Error(), nil)
		return
	}

	features, err := ml.DecodeFeatures(r.Body)
	if err != nil {
		h.recordFailure("invalid_input")
		var verr *ml.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error(), verr.Fields)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	prediction, err := h.holder.Predict(features)
	if err != nil {
		if errors.Is(err, ml.ErrModelNotLoaded) {
			h.recordFailure("model_unavailable")
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		h.recordFailure("prediction_failed")
		h.logger.Error("Prediction error",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "prediction failed", nil)
		return
	}

	result := ml.NewResult(prediction)
	h.metrics.IncrCounter("predictions_total", map[string]string{"label": strconv.Itoa(result.Prediction)})
	h.logger.Debug("prediction",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Int("label", result.Prediction),
		zap.Float64("confidence", result.Confidence))

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) recordFailure(kind string) {
	h.metrics.IncrCounter("prediction_errors_total", map[string]string{"kind": kind})
}
