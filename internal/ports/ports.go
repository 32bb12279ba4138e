// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// These interfaces are the contract between the application core (the session
// loop and confirmation gate) and external adapters: the speech engines, the
// inference endpoints, the shell, and persistence. The core depends on these
// abstractions only, which is what makes the confirmation pipeline testable
// with stub implementations.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/voco/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.voco/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProfileDetector produces the immutable SystemProfile, applying any overrides
// from configuration. Called once at session start.
type ProfileDetector interface {
	Detect(context.Context, domain.Config) (domain.SystemProfile, error)
}

// Transcriber wraps the speech-to-text engine. Listen blocks until speech is
// transcribed, the timeout elapses, or ctx is cancelled. Silence and engine
// failures both surface as domain.ErrNoSpeech; the session loop treats either
// as a no-op cycle. The loop is the only caller, which is what implements the
// mute window: while the assistant thinks, speaks, or executes, nobody listens.
type Transcriber interface {
	Listen(ctx context.Context, timeout time.Duration) (string, error)
}

// Speaker wraps text-to-speech. Speak blocks until playback completes and
// implementations must serialize calls so utterances never overlap.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Notifier pushes best-effort desktop notifications. Fire-and-forget: failures
// are swallowed and must never block the pipeline.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Provider is one inference endpoint. Complete sends a prompt and returns the
// raw model text; endpoint failures come back as *domain.EndpointError.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest carries one prompt exchange.
type CompletionRequest struct {
	System string
	Prompt string
}

// ProviderFactory builds provider instances for configured model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// IntentClassifier decides whether an utterance is conversation or a command.
// A model answer that does not parse into exactly one known label fails with
// *domain.AmbiguousIntentError. No side effects.
type IntentClassifier interface {
	Classify(ctx context.Context, u domain.Utterance) (domain.Intent, error)
}

// ConversationResponder produces a spoken reply for conversation utterances.
type ConversationResponder interface {
	Respond(ctx context.Context, u domain.Utterance) (string, error)
}

// CommandSynthesizer turns a command utterance plus the system profile into a
// frozen CommandProposal in the proposed state, or fails with
// *domain.SynthesisError.
type CommandSynthesizer interface {
	Synthesize(ctx context.Context, u domain.Utterance, profile domain.SystemProfile) (*domain.CommandProposal, error)
}

// CommandExecutor runs a confirmed command string in the configured shell.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// SecurityService evaluates commands against guardrail rules. The assessment
// is informational: it enriches the final confirmation prompt and the audit
// record, it never gates execution.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// HistoryRepository persists the command audit trail.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	List(limit int) ([]domain.HistoryRecord, error)
	Clear() error
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
