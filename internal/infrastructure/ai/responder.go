package ai

import (
	"context"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

const responderSystemPrompt = `You are VOCO, a friendly local voice assistant.
Your answers are read aloud by a speech synthesizer, so keep them to one or two
short sentences of plain text. No markdown, no lists, no code blocks.`

// Responder implements ports.ConversationResponder.
type Responder struct {
	Provider ports.Provider
}

func (r *Responder) Respond(ctx context.Context, u domain.Utterance) (string, error) {
	return r.Provider.Complete(ctx, ports.CompletionRequest{
		System: responderSystemPrompt,
		Prompt: u.Text,
	})
}

var _ ports.ConversationResponder = (*Responder)(nil)
