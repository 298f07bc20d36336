package ml

const (
	RiskRecommendation    = "You show significant risk factors. We strongly recommend scheduling an appointment with a cardiologist for comprehensive evaluation."
	HealthyRecommendation = "Your heart health appears to be good! Continue maintaining a healthy lifestyle with regular exercise and balanced diet."
)

// Result is the public answer for one prediction.
type Result struct {
	Prediction     int     `json:"prediction"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation"`
}

// NewResult maps a holder prediction to its response. Confidence is the probability of
// the returned label, not of the positive class.
func NewResult(p Prediction) Result {
	return Result{
		Prediction:     p.Label,
		Confidence:     p.Confidence(),
		Recommendation: Recommendation(p.Label),
	}
}

func Recommendation(label int) string {
	if label == 1 {
		return RiskRecommendation
	}
	return HealthyRecommendation
}
