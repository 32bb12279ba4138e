// Package domain defines core entities and value objects for VOCO.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures: utterances, intents, command proposals and
// their confirmation state machine.
package domain

import "time"

// Utterance is one transcribed unit of spoken input. Immutable once created;
// the sequence number is owned by the session loop and increases monotonically.
type Utterance struct {
	Seq        uint64
	Text       string
	CapturedAt time.Time
}

// NewUtterance builds an utterance stamped with the capture time.
func NewUtterance(seq uint64, text string) Utterance {
	return Utterance{Seq: seq, Text: text, CapturedAt: time.Now()}
}

// Empty reports whether the transcription produced no usable speech.
func (u Utterance) Empty() bool {
	return u.Text == ""
}

// IntentLabel is the closed classification enumeration. Free-text model output
// never flows into control decisions: the classifier parses into one of these
// or fails.
type IntentLabel string

const (
	IntentConversation IntentLabel = "conversation"
	IntentCommand      IntentLabel = "command"
	IntentUnknown      IntentLabel = "unknown"
)

// ParseIntentLabel maps a model label to the closed enumeration. Anything that
// is not exactly one of the two known labels comes back as IntentUnknown.
func ParseIntentLabel(raw string) IntentLabel {
	switch normalizeLabel(raw) {
	case string(IntentConversation):
		return IntentConversation
	case string(IntentCommand):
		return IntentCommand
	default:
		return IntentUnknown
	}
}

func normalizeLabel(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case c >= 'a' && c <= 'z':
			out = append(out, c)
		}
	}
	return string(out)
}

// Intent pairs a classification with the utterance it originated from.
type Intent struct {
	Label     IntentLabel
	Utterance Utterance
}
