package ai

import (
	"context"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

const classifierSystemPrompt = `You are the intent classifier for a voice assistant running on the user's computer.
Decide whether the utterance asks the assistant to do something on this computer
(open, launch, run, install, shut down, change settings), or is ordinary conversation.

Answer with exactly one word: COMMAND or CONVERSATION.
No punctuation. No explanations. Never answer anything else.`

// Classifier implements ports.IntentClassifier on top of a provider. The model
// output goes through a strict parse into the closed label enumeration; free
// text never reaches a control decision.
type Classifier struct {
	Provider ports.Provider
}

func (c *Classifier) Classify(ctx context.Context, u domain.Utterance) (domain.Intent, error) {
	raw, err := c.Provider.Complete(ctx, ports.CompletionRequest{
		System: classifierSystemPrompt,
		Prompt: u.Text,
	})
	if err != nil {
		return domain.Intent{}, err
	}

	label := domain.ParseIntentLabel(raw)
	if label == domain.IntentUnknown {
		return domain.Intent{}, &domain.AmbiguousIntentError{Raw: raw}
	}
	return domain.Intent{Label: label, Utterance: u}, nil
}

var _ ports.IntentClassifier = (*Classifier)(nil)
