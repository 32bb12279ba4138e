// Package executor runs confirmed commands on the host shell.
package executor

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

// Local runs commands through the configured shell with a bounded timeout and
// byte-capped output capture. It never retries: a failed command is reported,
// not re-attempted.
type Local struct {
	shell   string
	timeout time.Duration
	cap     int
}

// NewLocal builds an executor. The shell defaults to $SHELL, then /bin/sh.
func NewLocal(shell string, timeout time.Duration, outputCap int) *Local {
	if shell == "" || shell == "auto" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	if timeout <= 0 {
		timeout = domain.DefaultExecTimeout
	}
	if outputCap <= 0 {
		outputCap = domain.DefaultOutputCapBytes
	}
	return &Local{shell: shell, timeout: timeout, cap: outputCap}
}

// Execute implements ports.CommandExecutor.
func (e *Local) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, e.shell, "-c", command)
	stdout := newCappedBuffer(e.cap)
	stderr := newCappedBuffer(e.cap)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := domain.ExecutionResult{
		Ran:       true,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  elapsed,
	}

	if cctx.Err() == context.DeadlineExceeded {
		result.Err = context.DeadlineExceeded
		result.ExitCode = -1
		return result, result.Err
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		result.Err = err
		return result, err
	}
	if err != nil {
		result.Ran = false
		result.ExitCode = -1
		result.Err = err
		return result, err
	}
	return result, nil
}

var _ ports.CommandExecutor = (*Local)(nil)

// cappedBuffer keeps at most cap bytes and drops the rest, remembering that
// it did.
type cappedBuffer struct {
	buf       []byte
	cap       int
	truncated bool
}

func newCappedBuffer(cap int) *cappedBuffer {
	return &cappedBuffer{cap: cap}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.cap - len(b.buf)
	if room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.buf = append(b.buf, p[:room]...)
	}
	if len(p) > room {
		b.truncated = true
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return string(b.buf)
}

func (b *cappedBuffer) Truncated() bool {
	return b.truncated
}
