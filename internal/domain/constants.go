package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultListenTimeout bounds each listening window.
	DefaultListenTimeout = 15 * time.Second
	// DefaultConfirmTimeout bounds each confirmation listening window; after
	// this much silence the gate treats the answer as negative.
	DefaultConfirmTimeout = 5 * time.Second
	// DefaultCooldown is the mute window after speaking or executing, so the
	// transcript source does not re-capture the assistant's own speech.
	DefaultCooldown = 3 * time.Second
	// DefaultExecTimeout bounds confirmed command execution.
	DefaultExecTimeout = 30 * time.Second
	// DefaultRequestTimeout bounds a single inference request.
	DefaultRequestTimeout = 60 * time.Second
	// DefaultNotifyTimeout bounds the fire-and-forget notifier.
	DefaultNotifyTimeout = 2 * time.Second
)

// Limit constants
const (
	// DefaultOutputCapBytes caps captured stdout/stderr per stream.
	DefaultOutputCapBytes = 8 * 1024
	// DefaultSpokenOutputLimit caps how much captured output is read aloud.
	DefaultSpokenOutputLimit = 280
	// DefaultMaxTokens is the default completion budget.
	DefaultMaxTokens = 512
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display.
	DefaultHistoryLimit = 20
)
