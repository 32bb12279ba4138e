package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/doeshing/voco/internal/domain"
)

var kdeProfile = domain.SystemProfile{
	OS:       "linux",
	Distro:   "Manjaro Linux",
	Desktop:  "KDE",
	Shell:    "/bin/zsh",
	Terminal: "konsole",
}

func TestSynthesizeCommandVerbatim(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  string
	}{
		{"plain json", `{"command": "konsole &"}`, "konsole &"},
		{"fenced json", "```json\n{\"command\": \"konsole &\"}\n```", "konsole &"},
		{"bare fence", "```\n{\"command\": \"ls -la /tmp\"}\n```", "ls -la /tmp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Synthesizer{
				Command: &stubProvider{replies: []string{tc.reply}},
				Summary: &stubProvider{replies: []string{"Opens a terminal window."}},
			}
			p, err := s.Synthesize(context.Background(), domain.NewUtterance(3, "open the terminal"), kdeProfile)
			if err != nil {
				t.Fatalf("Synthesize error: %v", err)
			}
			if p.Command != tc.want {
				t.Errorf("Command = %q, want %q (no mutation of model output)", p.Command, tc.want)
			}
			if p.State() != domain.StateProposed {
				t.Errorf("new proposal state = %s, want %s", p.State(), domain.StateProposed)
			}
			if p.Summary != "Opens a terminal window." {
				t.Errorf("Summary = %q", p.Summary)
			}
		})
	}
}

func TestSynthesizePromptEmbedsProfile(t *testing.T) {
	cmd := &stubProvider{replies: []string{`{"command": "konsole &"}`}}
	s := &Synthesizer{Command: cmd, Summary: &stubProvider{replies: []string{"ok"}}}

	if _, err := s.Synthesize(context.Background(), domain.NewUtterance(1, "open the terminal"), kdeProfile); err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if len(cmd.prompts) != 1 {
		t.Fatalf("command model called %d times, want 1", len(cmd.prompts))
	}
	system := cmd.prompts[0].System
	for _, want := range []string{"KDE", "konsole", "Manjaro"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q:\n%s", want, system)
		}
	}
}

func TestSynthesizeFailures(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"empty", ""},
		{"refusal prose", "I'm sorry, I can't help with that."},
		{"empty command", `{"command": ""}`},
		{"wrong shape", `["ls"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Synthesizer{Command: &stubProvider{replies: []string{tc.reply}}}
			_, err := s.Synthesize(context.Background(), domain.NewUtterance(1, "do the thing"), kdeProfile)
			var synth *domain.SynthesisError
			if !errors.As(err, &synth) {
				t.Fatalf("err = %v, want SynthesisError", err)
			}
		})
	}
}

func TestSynthesizeEndpointFailurePropagates(t *testing.T) {
	endpointErr := &domain.EndpointError{Endpoint: "http://localhost:11434", Err: context.DeadlineExceeded}
	s := &Synthesizer{Command: &stubProvider{err: endpointErr}}
	_, err := s.Synthesize(context.Background(), domain.NewUtterance(1, "open the terminal"), kdeProfile)
	if err == nil || !domain.IsEndpointError(err) {
		t.Fatalf("err = %v, want wrapped endpoint error", err)
	}
	var synth *domain.SynthesisError
	if errors.As(err, &synth) {
		t.Fatal("timeout must not masquerade as a synthesis error")
	}
}

func TestSummaryFallsBackToCommandText(t *testing.T) {
	s := &Synthesizer{
		Command: &stubProvider{replies: []string{`{"command": "uptime"}`}},
		Summary: &stubProvider{err: errors.New("down")},
	}
	p, err := s.Synthesize(context.Background(), domain.NewUtterance(1, "how long has this machine been up"), kdeProfile)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if p.Summary != "uptime" {
		t.Errorf("Summary = %q, want fallback to command text", p.Summary)
	}
}
