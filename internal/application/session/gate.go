package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

// answer is the fail-closed interpretation of a confirmation response. Only an
// explicit affirmative maps to answerYes; negative, unparseable, silent or
// timed-out responses all abort.
type answer int

const (
	answerYes answer = iota
	answerNo
	answerTimeout
	answerCancel
)

var affirmatives = []string{
	"yes",
	"yeah",
	"yep",
	"sure",
	"run it",
	"do it",
	"go ahead",
	"confirm",
	"affirmative",
}

var cancellations = []string{
	"cancel",
	"stop",
	"abort",
	"never mind",
}

// parseAnswer interprets a transcribed confirmation response.
func parseAnswer(text string) answer {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return answerTimeout
	}
	for _, word := range cancellations {
		if strings.Contains(lowered, word) {
			return answerCancel
		}
	}
	for _, word := range affirmatives {
		if strings.Contains(lowered, word) {
			return answerYes
		}
	}
	return answerNo
}

func (a answer) event() domain.ProposalEvent {
	switch a {
	case answerNo:
		return domain.EventNo
	case answerCancel:
		return domain.EventCancel
	default:
		return domain.EventTimeout
	}
}

// Gate is the two-stage voice confirmation state machine guarding command
// execution. One Confirm call handles one proposal; the proposal's command and
// summary are read from its frozen fields, never regenerated, so the text the
// user confirms is the text that executes.
type Gate struct {
	Speaker     ports.Speaker
	Transcriber ports.Transcriber
	Timeout     time.Duration
	Logger      ports.Logger
}

// Confirm drives the proposal from proposed to confirmed or rejected. It
// returns true only when both stages received an explicit affirmative. Either
// negative answer aborts unconditionally; there is no partial-override path.
func (g *Gate) Confirm(ctx context.Context, p *domain.CommandProposal, risk domain.RiskAssessment) (bool, error) {
	if err := p.Apply(domain.EventBegin); err != nil {
		return false, err
	}

	ans := g.askYesNo(ctx, fmt.Sprintf("Did you want me to run a command for: %s?", p.Summary))
	if ans != answerYes {
		return false, g.reject(ctx, p, ans)
	}
	if err := p.Apply(domain.EventYes); err != nil {
		return false, err
	}

	ans = g.askYesNo(ctx, g.finalPrompt(p, risk))
	if ans != answerYes {
		return false, g.reject(ctx, p, ans)
	}
	if err := p.Apply(domain.EventYes); err != nil {
		return false, err
	}
	return true, nil
}

func (g *Gate) finalPrompt(p *domain.CommandProposal, risk domain.RiskAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The command is: %s. %s", p.Command, p.Summary)
	if !strings.HasSuffix(p.Summary, ".") {
		b.WriteString(".")
	}
	if risk.Notable() {
		fmt.Fprintf(&b, " Warning, %s risk: %s.", risk.Level, strings.Join(risk.Reasons, "; "))
	}
	b.WriteString(" Shall I run it?")
	return b.String()
}

func (g *Gate) reject(ctx context.Context, p *domain.CommandProposal, ans answer) error {
	if err := p.Apply(ans.event()); err != nil {
		return err
	}
	g.speak(ctx, "Okay, I won't run anything.")
	return nil
}

// askYesNo speaks the prompt and listens for a bounded window. Any failure on
// the way (speaker error, transcription error, silence) is treated as a
// timeout, which the state machine maps to rejection.
func (g *Gate) askYesNo(ctx context.Context, prompt string) answer {
	g.speak(ctx, prompt)

	text, err := g.Transcriber.Listen(ctx, g.Timeout)
	if err != nil {
		return answerTimeout
	}
	got := parseAnswer(text)
	g.Logger.Debug("confirmation response", map[string]interface{}{
		"text":   text,
		"answer": int(got),
	})
	return got
}

func (g *Gate) speak(ctx context.Context, text string) {
	if err := g.Speaker.Speak(ctx, text); err != nil {
		g.Logger.Warn("speech output failed", map[string]interface{}{"error": err.Error()})
	}
}
