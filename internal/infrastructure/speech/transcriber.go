// Package speech wraps the external speech engines at the process boundary.
// Capture, recognition and synthesis are external collaborators; these
// adapters only shell out and map failures onto the session's error model.
package speech

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

// ExecTranscriber runs a capture-and-transcribe command and reads the
// utterance from its stdout. The command is expected to record from the
// microphone until silence or until killed by the listen timeout, then print
// the recognized text.
type ExecTranscriber struct {
	Argv   []string
	Logger ports.Logger
}

// Listen implements ports.Transcriber. Silence, a timed-out capture and an
// engine error all map to domain.ErrNoSpeech: the session loop treats every
// one of them as an empty cycle.
func (t *ExecTranscriber) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	if len(t.Argv) == 0 {
		return "", errors.New("transcriber: no command configured")
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, t.Argv[0], t.Argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		if t.Logger != nil && !errors.Is(cctx.Err(), context.DeadlineExceeded) {
			t.Logger.Debug("transcriber command failed", map[string]interface{}{
				"error":  err.Error(),
				"stderr": strings.TrimSpace(stderr.String()),
			})
		}
		return "", domain.ErrNoSpeech
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", domain.ErrNoSpeech
	}
	return text, nil
}

var _ ports.Transcriber = (*ExecTranscriber)(nil)
