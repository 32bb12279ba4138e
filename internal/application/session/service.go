// Package session implements the voice session loop: listen, classify,
// respond or synthesize-confirm-execute, speak, cool down, listen again.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

const (
	msgEndpointDown  = "The language model is not reachable right now."
	msgSynthesisFail = "I couldn't work out a command for that."
	msgGoodbye       = "Stopping. Goodbye."
)

var stopPhrases = []string{
	"stop listening",
	"shut down",
}

// Service orchestrates one interactive voice session end-to-end. Single
// logical thread of control: listen, think and speak are strictly serialized,
// and the loop owns the only reference to the Transcriber, which is what makes
// the mute windows real. Nobody listens while the assistant speaks, confirms,
// or executes.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Profile        ports.ProfileDetector
	Transcriber    ports.Transcriber
	Speaker        ports.Speaker
	Notifier       ports.Notifier
	Classifier     ports.IntentClassifier
	Responder      ports.ConversationResponder
	Synthesizer    ports.CommandSynthesizer
	Security       ports.SecurityService
	Executor       ports.CommandExecutor
	History        ports.HistoryRepository
	Logger         ports.Logger

	// Pause is the mute-window sleep, swappable in tests. Defaults to a
	// context-aware sleep of the configured cooldown.
	Pause func(ctx context.Context, d time.Duration)

	sessionID uuid.UUID
	seq       uint64
}

// Run drives the session loop until ctx is cancelled or a stop phrase is
// recognized. All errors are converted into spoken or logged messages at this
// boundary; none escape to terminate the process.
func (s *Service) Run(ctx context.Context) error {
	if s.ConfigProvider == nil || s.Profile == nil || s.Transcriber == nil || s.Speaker == nil ||
		s.Classifier == nil || s.Responder == nil || s.Synthesizer == nil || s.Executor == nil ||
		s.Logger == nil {
		return errors.New("session.Service dependencies not satisfied")
	}
	if s.Pause == nil {
		s.Pause = sleepCtx
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	profile, err := s.Profile.Detect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("detect profile: %w", err)
	}

	s.sessionID = uuid.New()
	s.Logger.Info("session started", map[string]interface{}{
		"session": s.sessionID.String(),
		"profile": profile.Describe(),
	})

	for {
		if ctx.Err() != nil {
			return nil
		}

		text, err := s.Transcriber.Listen(ctx, cfg.ListenTimeout())
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !errors.Is(err, domain.ErrNoSpeech) {
				s.Logger.Debug("transcription failed", map[string]interface{}{"error": err.Error()})
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		s.seq++
		utt := domain.NewUtterance(s.seq, text)
		s.Logger.Info("heard", map[string]interface{}{"seq": utt.Seq, "text": utt.Text})

		if isStopPhrase(text) {
			s.say(ctx, msgGoodbye)
			return nil
		}

		intent, ok := s.classify(ctx, utt)
		if !ok {
			s.Pause(ctx, cfg.Cooldown())
			continue
		}

		switch intent.Label {
		case domain.IntentCommand:
			s.handleCommand(ctx, cfg, utt, profile)
		default:
			s.handleConversation(ctx, utt)
		}

		// Mute window: let the room go quiet so the next listening cycle does
		// not capture the assistant's own speech or the executed command.
		s.Pause(ctx, cfg.Cooldown())
	}
}

// classify maps the utterance to an intent. Ambiguous labels fall back to the
// conversation path, never to the command path. Endpoint failures are
// announced and end the turn.
func (s *Service) classify(ctx context.Context, utt domain.Utterance) (domain.Intent, bool) {
	intent, err := s.Classifier.Classify(ctx, utt)
	if err == nil {
		return intent, true
	}

	var ambiguous *domain.AmbiguousIntentError
	if errors.As(err, &ambiguous) {
		s.Logger.Debug("ambiguous intent, treating as conversation", map[string]interface{}{
			"raw": ambiguous.Raw,
		})
		return domain.Intent{Label: domain.IntentConversation, Utterance: utt}, true
	}

	s.Logger.Error("intent classification failed", err, nil)
	s.say(ctx, msgEndpointDown)
	return domain.Intent{}, false
}

func (s *Service) handleConversation(ctx context.Context, utt domain.Utterance) {
	reply, err := s.Responder.Respond(ctx, utt)
	if err != nil {
		s.Logger.Error("conversation response failed", err, nil)
		s.say(ctx, msgEndpointDown)
		return
	}
	s.say(ctx, reply)
}

func (s *Service) handleCommand(ctx context.Context, cfg domain.Config, utt domain.Utterance, profile domain.SystemProfile) {
	proposal, err := s.Synthesizer.Synthesize(ctx, utt, profile)
	if err != nil {
		var synth *domain.SynthesisError
		if errors.As(err, &synth) {
			s.Logger.Warn("synthesis failed", map[string]interface{}{"reason": synth.Reason})
			s.say(ctx, msgSynthesisFail)
		} else {
			s.Logger.Error("command synthesis failed", err, nil)
			s.say(ctx, msgEndpointDown)
		}
		return
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, "Proposed command: "+proposal.Command)
	}

	risk := s.evaluate(proposal.Command)

	gate := &Gate{
		Speaker:     s.Speaker,
		Transcriber: s.Transcriber,
		Timeout:     cfg.ConfirmTimeout(),
		Logger:      s.Logger,
	}
	confirmed, err := gate.Confirm(ctx, proposal, risk)
	if err != nil {
		s.Logger.Error("confirmation gate failed", err, nil)
		return
	}
	if !confirmed {
		s.record(proposal, risk, domain.ExecutionResult{})
		return
	}

	result, execErr := s.Executor.Execute(ctx, proposal.Command)
	if err := proposal.Apply(domain.EventExecute); err != nil {
		s.Logger.Error("proposal state error", err, nil)
	}
	if execErr != nil {
		s.Logger.Warn("command failed", map[string]interface{}{
			"command": proposal.Command,
			"error":   execErr.Error(),
		})
	}
	s.announceResult(ctx, result)
	s.record(proposal, risk, result)
}

func (s *Service) evaluate(command string) domain.RiskAssessment {
	if s.Security == nil {
		return domain.RiskAssessment{}
	}
	risk, err := s.Security.Evaluate(command)
	if err != nil {
		s.Logger.Warn("guardrail evaluation failed", map[string]interface{}{"error": err.Error()})
		return domain.RiskAssessment{}
	}
	return risk
}

// announceResult converts the execution outcome into one spoken summary.
// Failed commands are reported, never re-attempted: re-issuing would bypass
// the confirmations the user actually gave.
func (s *Service) announceResult(ctx context.Context, result domain.ExecutionResult) {
	if result.Failed() {
		msg := fmt.Sprintf("The command failed with exit code %d.", result.ExitCode)
		if errors.Is(result.Err, context.DeadlineExceeded) {
			msg = "The command timed out."
		}
		if detail := spokenExcerpt(result.Stderr); detail != "" {
			msg += " It said: " + detail
		}
		s.say(ctx, msg)
		return
	}

	msg := fmt.Sprintf("Done in %.1f seconds.", result.Duration.Seconds())
	if detail := spokenExcerpt(result.Stdout); detail != "" {
		msg += " Output: " + detail
	}
	if result.Truncated {
		msg += " Output was truncated."
	}
	s.say(ctx, msg)
}

func (s *Service) record(p *domain.CommandProposal, risk domain.RiskAssessment, result domain.ExecutionResult) {
	if s.History == nil {
		return
	}
	rec := domain.HistoryRecord{
		SessionID:  s.sessionID.String(),
		Timestamp:  time.Now(),
		Utterance:  p.Utterance.Text,
		Command:    p.Command,
		Summary:    p.Summary,
		FinalState: p.State(),
		RiskLevel:  risk.Level,
		ExitCode:   result.ExitCode,
		Duration:   result.Duration,
	}
	if err := s.History.Save(rec); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) say(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if err := s.Speaker.Speak(ctx, text); err != nil {
		s.Logger.Warn("speech output failed", map[string]interface{}{"error": err.Error()})
	}
}

// isStopPhrase matches the whole utterance, not a substring: "shut down the
// computer" is a command request for the classifier, only a bare stop phrase
// ends the session.
func isStopPhrase(text string) bool {
	lowered := strings.Trim(strings.ToLower(text), " .,!?")
	for _, phrase := range stopPhrases {
		if lowered == phrase {
			return true
		}
	}
	return false
}

// spokenExcerpt trims captured output to something announceable: first line
// only, capped at the spoken output limit.
func spokenExcerpt(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	if idx := strings.IndexByte(out, '\n'); idx >= 0 {
		out = out[:idx]
	}
	if len(out) > domain.DefaultSpokenOutputLimit {
		out = out[:domain.DefaultSpokenOutputLimit] + "…"
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
