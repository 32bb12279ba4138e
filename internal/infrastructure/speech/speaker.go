package speech

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/doeshing/voco/internal/ports"
)

// ExecSpeaker speaks through an external TTS command (espeak-ng by default),
// passing the text as the final argument. A mutex serializes all calls so
// spoken utterances never overlap, and Speak blocks until playback completes.
type ExecSpeaker struct {
	Argv []string

	mu sync.Mutex
}

// Speak implements ports.Speaker.
func (s *ExecSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if len(s.Argv) == 0 {
		return errors.New("speaker: no command configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	argv := append(append([]string{}, s.Argv...), text)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.Run()
}

var _ ports.Speaker = (*ExecSpeaker)(nil)
