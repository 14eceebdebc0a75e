package models

// PredictionSource records which stage of the decision chain produced the
// final intent for a turn.
type PredictionSource string

const (
	SourceClassifier      PredictionSource = "classifier"
	SourcePatternFallback PredictionSource = "pattern-fallback"
	SourceContextDefault  PredictionSource = "context-default"
)

// Prediction is the immutable outcome of classifying one utterance.
type Prediction struct {
	IntentTag  string           `json:"intent"`
	Confidence float64          `json:"confidence"`
	Source     PredictionSource `json:"source"`
}
