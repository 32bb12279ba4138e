// Package notify pushes best-effort desktop notifications so proposed
// commands can be inspected on another screen (kdeconnect forwards them to a
// phone). Strictly fire-and-forget.
package notify

import (
	"context"
	"os/exec"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

// ExecNotifier shells out to a notification command with the message appended
// as the final argument. Failures are swallowed: a missing binary or a dead
// daemon must never block the voice pipeline.
type ExecNotifier struct {
	Argv   []string
	Logger ports.Logger
}

// Notify implements ports.Notifier.
func (n *ExecNotifier) Notify(ctx context.Context, text string) {
	if len(n.Argv) == 0 || text == "" {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, domain.DefaultNotifyTimeout)
	defer cancel()

	argv := append(append([]string{}, n.Argv...), text)
	if err := exec.CommandContext(cctx, argv[0], argv[1:]...).Run(); err != nil && n.Logger != nil {
		n.Logger.Debug("notification failed", map[string]interface{}{"error": err.Error()})
	}
}

var _ ports.Notifier = (*ExecNotifier)(nil)
