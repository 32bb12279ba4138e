package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

// Synthesizer implements ports.CommandSynthesizer with two model calls: the
// command model produces the shell command as JSON, the conversation model
// produces the one-sentence summary. Both results are frozen into the proposal
// before any confirmation starts.
type Synthesizer struct {
	Command ports.Provider
	Summary ports.Provider
	Logger  ports.Logger
}

type commandEnvelope struct {
	Command string `json:"command"`
}

func (s *Synthesizer) Synthesize(ctx context.Context, u domain.Utterance, profile domain.SystemProfile) (*domain.CommandProposal, error) {
	raw, err := s.Command.Complete(ctx, ports.CompletionRequest{
		System: synthesizerSystemPrompt(profile),
		Prompt: u.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("command model: %w", err)
	}

	command, err := parseCommandEnvelope(raw)
	if err != nil {
		return nil, err
	}

	summary := s.summarize(ctx, command)
	return domain.NewCommandProposal(u, command, summary, profile), nil
}

func synthesizerSystemPrompt(profile domain.SystemProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This system is running on %s.\n", profile.Describe())
	b.WriteString(`Convert the user's instruction into a JSON object with a single key "command"
whose value is one shell command line appropriate for this exact system.
`)
	if profile.Terminal != "" {
		fmt.Fprintf(&b, "When a terminal emulator is needed, use %s, not a generic one.\n", profile.Terminal)
	}
	b.WriteString(`Output only the JSON object. No markdown, no commentary.
If the instruction cannot be done with a shell command, output {"command": ""}.`)
	return b.String()
}

// parseCommandEnvelope strips markdown fences and decodes the model's JSON.
// The command value passes through verbatim; anything that is not a JSON
// object with a non-empty command is a synthesis failure.
func parseCommandEnvelope(raw string) (string, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return "", &domain.SynthesisError{Reason: "empty model output", Raw: raw}
	}

	var envelope commandEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return "", &domain.SynthesisError{Reason: "model output is not a command object", Raw: raw}
	}
	if strings.TrimSpace(envelope.Command) == "" {
		return "", &domain.SynthesisError{Reason: "model declined to produce a command", Raw: raw}
	}
	return envelope.Command, nil
}

// stripFences removes a surrounding markdown code block, which command models
// tend to wrap JSON in.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimSpace(text[len("```json"):])
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(text[len("```"):])
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}
	return text
}

// summarize asks the conversation model for a one-sentence description. A
// failed or empty summary degrades to the command text itself rather than
// aborting the proposal.
func (s *Synthesizer) summarize(ctx context.Context, command string) string {
	if s.Summary == nil {
		return command
	}
	summary, err := s.Summary.Complete(ctx, ports.CompletionRequest{
		Prompt: "Summarize in one short sentence what the following shell command does. " +
			"Answer with the sentence only: " + command,
	})
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil && s.Logger != nil {
			s.Logger.Warn("summary generation failed", map[string]interface{}{"error": err.Error()})
		}
		return command
	}
	return firstLine(summary)
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	return text
}

var _ ports.CommandSynthesizer = (*Synthesizer)(nil)
