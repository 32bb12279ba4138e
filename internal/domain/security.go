package domain

// RiskLevel enumerates guardrail outcomes.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskAssessment aggregates guardrail evaluation data. It is informational
// only: risk notes are spoken during the final confirmation and stored in
// history, but the two voice confirmations remain the sole execution gate.
type RiskAssessment struct {
	Level        RiskLevel
	Reasons      []string
	MatchedRules []string
}

// Notable reports whether the assessment carries anything worth announcing.
func (r RiskAssessment) Notable() bool {
	return r.Level != "" && r.Level != RiskSafe
}
