package domain

// Reason explains why an evaluation produced its result.
type Reason string

const (
	ReasonDisabled      Reason = "disabled"
	ReasonNoStrategies  Reason = "no strategies"
	ReasonStrategyMatch Reason = "strategy match"
	ReasonNoMatch       Reason = "no strategy matched"
)

// EvaluationResult is the outcome of evaluating one feature toggle
// against one context. Variant is populated only when the toggle is
// enabled and declares variants that resolve for the context.
type EvaluationResult struct {
	FeatureName string
	Enabled     bool
	Variant     *Variant
	Strategy    string
	Reason      Reason
}
