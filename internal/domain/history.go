package domain

import "time"

// HistoryRecord captures the audited outcome of one command proposal. This is
// an execution audit trail, not dialogue memory: conversation turns are never
// recorded.
type HistoryRecord struct {
	SessionID  string        `json:"session_id"`
	Timestamp  time.Time     `json:"timestamp"`
	Utterance  string        `json:"utterance"`
	Command    string        `json:"command"`
	Summary    string        `json:"summary"`
	FinalState ProposalState `json:"final_state"`
	RiskLevel  RiskLevel     `json:"risk_level"`
	ExitCode   int           `json:"exit_code"`
	Duration   time.Duration `json:"duration"`
}
