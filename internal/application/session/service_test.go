package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/voco/internal/domain"
)

type stubConfigProvider struct {
	cfg domain.Config
}

func (s *stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, nil
}

type stubDetector struct {
	profile domain.SystemProfile
}

func (s *stubDetector) Detect(context.Context, domain.Config) (domain.SystemProfile, error) {
	return s.profile, nil
}

type stubClassifier struct {
	label domain.IntentLabel
	err   error
	seqs  []uint64
}

func (s *stubClassifier) Classify(ctx context.Context, u domain.Utterance) (domain.Intent, error) {
	s.seqs = append(s.seqs, u.Seq)
	if s.err != nil {
		return domain.Intent{}, s.err
	}
	return domain.Intent{Label: s.label, Utterance: u}, nil
}

type stubResponder struct {
	reply string
	calls int
}

func (s *stubResponder) Respond(ctx context.Context, u domain.Utterance) (string, error) {
	s.calls++
	return s.reply, nil
}

type stubSynthesizer struct {
	command string
	summary string
	err     error
	calls   int
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, u domain.Utterance, profile domain.SystemProfile) (*domain.CommandProposal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return domain.NewCommandProposal(u, s.command, s.summary, profile), nil
}

type stubExecutor struct {
	result   domain.ExecutionResult
	commands []string
}

func (s *stubExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	s.commands = append(s.commands, command)
	return s.result, nil
}

type stubHistory struct {
	saved []domain.HistoryRecord
}

func (s *stubHistory) Save(rec domain.HistoryRecord) error {
	s.saved = append(s.saved, rec)
	return nil
}

func (s *stubHistory) List(int) ([]domain.HistoryRecord, error) { return s.saved, nil }
func (s *stubHistory) Clear() error                             { s.saved = nil; return nil }

type stubNotifier struct {
	notes []string
}

func (s *stubNotifier) Notify(ctx context.Context, text string) {
	s.notes = append(s.notes, text)
}

type fixture struct {
	service     *Service
	speaker     *recordingSpeaker
	transcriber *scriptedTranscriber
	executor    *stubExecutor
	responder   *stubResponder
	synthesizer *stubSynthesizer
	history     *stubHistory
	notifier    *stubNotifier
}

// newFixture wires a session whose transcriber plays the given replies and
// then hears the stop phrase, so Run terminates on its own.
func newFixture(classifier *stubClassifier, synthesizer *stubSynthesizer, replies ...string) *fixture {
	replies = append(replies, "stop listening")
	f := &fixture{
		speaker:     &recordingSpeaker{},
		transcriber: &scriptedTranscriber{replies: replies},
		executor:    &stubExecutor{result: domain.ExecutionResult{Ran: true, Stdout: "ok", Duration: 50 * time.Millisecond}},
		responder:   &stubResponder{reply: "Hello there."},
		synthesizer: synthesizer,
		history:     &stubHistory{},
		notifier:    &stubNotifier{},
	}
	f.service = &Service{
		ConfigProvider: &stubConfigProvider{},
		Profile:        &stubDetector{profile: domain.SystemProfile{OS: "linux", Desktop: "KDE", Terminal: "konsole"}},
		Transcriber:    f.transcriber,
		Speaker:        f.speaker,
		Notifier:       f.notifier,
		Classifier:     classifier,
		Responder:      f.responder,
		Synthesizer:    f.synthesizer,
		Executor:       f.executor,
		History:        f.history,
		Logger:         nullLogger{},
		Pause:          func(context.Context, time.Duration) {},
	}
	return f
}

func spokeContaining(spoken []string, fragment string) bool {
	for _, s := range spoken {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

func TestConversationNeverReachesExecutor(t *testing.T) {
	f := newFixture(
		&stubClassifier{label: domain.IntentConversation},
		&stubSynthesizer{},
		"how are you today",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.responder.calls != 1 {
		t.Errorf("responder calls = %d, want 1", f.responder.calls)
	}
	if f.synthesizer.calls != 0 {
		t.Errorf("synthesizer calls = %d, want 0", f.synthesizer.calls)
	}
	if len(f.executor.commands) != 0 {
		t.Errorf("executor ran %v, want nothing", f.executor.commands)
	}
	if !spokeContaining(f.speaker.spoken, "Hello there.") {
		t.Errorf("reply not spoken: %v", f.speaker.spoken)
	}
	if len(f.history.saved) != 0 {
		t.Errorf("conversation recorded to history: %+v", f.history.saved)
	}
}

func TestCommandConfirmedTwiceExecutesOnce(t *testing.T) {
	f := newFixture(
		&stubClassifier{label: domain.IntentCommand},
		&stubSynthesizer{command: "df -h", summary: "Show free disk space"},
		"show disk usage", "yes", "run it",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.executor.commands) != 1 {
		t.Fatalf("executor ran %d times, want 1", len(f.executor.commands))
	}
	if f.executor.commands[0] != "df -h" {
		t.Errorf("executed %q, want the frozen command verbatim", f.executor.commands[0])
	}
	if len(f.notifier.notes) != 1 || !strings.Contains(f.notifier.notes[0], "df -h") {
		t.Errorf("notification = %v, want proposed command", f.notifier.notes)
	}
	if !spokeContaining(f.speaker.spoken, "Done in") {
		t.Errorf("result not announced: %v", f.speaker.spoken)
	}
	if len(f.history.saved) != 1 {
		t.Fatalf("history records = %d, want 1", len(f.history.saved))
	}
	if f.history.saved[0].FinalState != domain.StateExecuted {
		t.Errorf("recorded state = %s, want executed", f.history.saved[0].FinalState)
	}
}

func TestCommandRejectedAtFirstStage(t *testing.T) {
	f := newFixture(
		&stubClassifier{label: domain.IntentCommand},
		&stubSynthesizer{command: "rm -rf /tmp/x", summary: "Delete the temporary directory"},
		"clean up temp", "no",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.executor.commands) != 0 {
		t.Fatalf("executor ran %v, want nothing", f.executor.commands)
	}
	if !spokeContaining(f.speaker.spoken, "I won't run anything") {
		t.Errorf("rejection not announced: %v", f.speaker.spoken)
	}
	if len(f.history.saved) != 1 {
		t.Fatalf("history records = %d, want 1", len(f.history.saved))
	}
	if f.history.saved[0].FinalState != domain.StateRejected {
		t.Errorf("recorded state = %s, want rejected", f.history.saved[0].FinalState)
	}
}

func TestSilenceAtConfirmationRejects(t *testing.T) {
	// The confirmation listen hears only silence, which times out the gate.
	f := newFixture(
		&stubClassifier{label: domain.IntentCommand},
		&stubSynthesizer{command: "df -h", summary: "Show free disk space"},
		"show disk usage", "", "",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.executor.commands) != 0 {
		t.Fatalf("executor ran %v, want nothing", f.executor.commands)
	}
	if len(f.history.saved) != 1 || f.history.saved[0].FinalState != domain.StateRejected {
		t.Errorf("history = %+v, want one rejected record", f.history.saved)
	}
}

func TestSynthesisFailureAnnouncedAndLoopContinues(t *testing.T) {
	f := newFixture(
		&stubClassifier{label: domain.IntentCommand},
		&stubSynthesizer{err: &domain.SynthesisError{Reason: "model declined to produce a command"}},
		"do something impossible",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.executor.commands) != 0 {
		t.Errorf("executor ran %v, want nothing", f.executor.commands)
	}
	if !spokeContaining(f.speaker.spoken, "couldn't work out a command") {
		t.Errorf("failure not announced: %v", f.speaker.spoken)
	}
	// The loop survived to hear and honor the stop phrase.
	if !spokeContaining(f.speaker.spoken, "Goodbye") {
		t.Errorf("loop did not reach goodbye: %v", f.speaker.spoken)
	}
}

func TestAmbiguousIntentFallsBackToConversation(t *testing.T) {
	f := newFixture(
		&stubClassifier{err: &domain.AmbiguousIntentError{Raw: "COMMANDVERSATION"}},
		&stubSynthesizer{},
		"mumble mumble",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.responder.calls != 1 {
		t.Errorf("responder calls = %d, want conversation fallback", f.responder.calls)
	}
	if f.synthesizer.calls != 0 {
		t.Errorf("synthesizer calls = %d, want 0", f.synthesizer.calls)
	}
}

func TestStopPhraseEndsSession(t *testing.T) {
	f := newFixture(&stubClassifier{label: domain.IntentConversation}, &stubSynthesizer{})

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !spokeContaining(f.speaker.spoken, "Goodbye") {
		t.Errorf("goodbye not spoken: %v", f.speaker.spoken)
	}
	if f.responder.calls != 0 {
		t.Errorf("stop phrase was routed to the responder")
	}
}

// countingPause records every mute window the loop requests.
type countingPause struct {
	durations []time.Duration
}

func (c *countingPause) pause(ctx context.Context, d time.Duration) {
	c.durations = append(c.durations, d)
}

func TestMuteWindowFollowsEveryTurn(t *testing.T) {
	classifier := &stubClassifier{label: domain.IntentConversation}
	pause := &countingPause{}
	f := newFixture(classifier, &stubSynthesizer{}, "hello there", "what time is it")
	f.service.ConfigProvider = &stubConfigProvider{cfg: domain.Config{
		Voice: domain.VoiceSettings{CooldownSeconds: 2},
	}}
	f.service.Pause = pause.pause

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// One mute window per handled turn; the stop phrase ends the loop before
	// its own pause.
	if len(pause.durations) != 2 {
		t.Fatalf("pause calls = %d, want 2", len(pause.durations))
	}
	for i, d := range pause.durations {
		if d != 2*time.Second {
			t.Errorf("pause[%d] = %s, want the configured 2s cooldown", i, d)
		}
	}
	// Each heard utterance carries the next sequence number.
	want := []uint64{1, 2}
	if len(classifier.seqs) != len(want) {
		t.Fatalf("classified %d utterances, want %d", len(classifier.seqs), len(want))
	}
	for i, seq := range classifier.seqs {
		if seq != want[i] {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want[i])
		}
	}
}

func TestMuteWindowFollowsCommandTurn(t *testing.T) {
	pause := &countingPause{}
	f := newFixture(
		&stubClassifier{label: domain.IntentCommand},
		&stubSynthesizer{command: "df -h", summary: "Show free disk space"},
		"show disk usage", "yes", "run it",
	)
	f.service.Pause = pause.pause

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.executor.commands) != 1 {
		t.Fatalf("executor ran %d times, want 1", len(f.executor.commands))
	}
	if len(pause.durations) != 1 {
		t.Fatalf("pause calls = %d, want 1 after the command turn", len(pause.durations))
	}
	if pause.durations[0] != domain.DefaultCooldown {
		t.Errorf("pause = %s, want the default cooldown", pause.durations[0])
	}
}

func TestMuteWindowFollowsClassificationFailure(t *testing.T) {
	pause := &countingPause{}
	f := newFixture(
		&stubClassifier{err: &domain.EndpointError{Endpoint: "http://localhost:11434", Err: context.DeadlineExceeded}},
		&stubSynthesizer{},
		"hello there",
	)
	f.service.Pause = pause.pause

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !spokeContaining(f.speaker.spoken, "not reachable") {
		t.Errorf("endpoint failure not announced: %v", f.speaker.spoken)
	}
	// The failed turn still gets its mute window before the loop listens again.
	if len(pause.durations) != 1 {
		t.Fatalf("pause calls = %d, want 1 after the failed turn", len(pause.durations))
	}
	// The loop survived to hear the stop phrase.
	if !spokeContaining(f.speaker.spoken, "Goodbye") {
		t.Errorf("loop did not reach goodbye: %v", f.speaker.spoken)
	}
}

func TestSynthesisEndpointFailureAnnouncedAsEndpointDown(t *testing.T) {
	f := newFixture(
		&stubClassifier{label: domain.IntentCommand},
		&stubSynthesizer{err: &domain.EndpointError{Endpoint: "http://localhost:11434", Err: context.DeadlineExceeded}},
		"show disk usage",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.executor.commands) != 0 {
		t.Errorf("executor ran %v, want nothing", f.executor.commands)
	}
	if !spokeContaining(f.speaker.spoken, "not reachable") {
		t.Errorf("endpoint failure not announced: %v", f.speaker.spoken)
	}
	if !spokeContaining(f.speaker.spoken, "Goodbye") {
		t.Errorf("loop did not reach goodbye: %v", f.speaker.spoken)
	}
}

func TestStopPhraseRequiresWholeUtterance(t *testing.T) {
	classifier := &stubClassifier{label: domain.IntentCommand}
	f := newFixture(
		classifier,
		&stubSynthesizer{command: "systemctl poweroff", summary: "Power off the machine"},
		"shut down the computer", "no",
	)

	if err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The longer utterance reaches the classifier as a command request
	// instead of ending the session.
	if len(classifier.seqs) != 1 {
		t.Fatalf("classified %d utterances, want 1", len(classifier.seqs))
	}
	if f.synthesizer.calls != 1 {
		t.Errorf("synthesizer calls = %d, want 1", f.synthesizer.calls)
	}
	// A bare stop phrase, even with trailing punctuation, still ends it.
	if !isStopPhrase("Shut down.") {
		t.Error("bare stop phrase with punctuation not recognized")
	}
	if isStopPhrase("shut down the computer") {
		t.Error("command request misread as a stop phrase")
	}
}

func TestContextCancellationStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newFixture(&stubClassifier{label: domain.IntentConversation}, &stubSynthesizer{})

	if err := f.service.Run(ctx); err != nil {
		t.Fatalf("Run after cancel: %v", err)
	}
}
