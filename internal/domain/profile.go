package domain

import "strings"

// SystemProfile is a static description of the host used to tailor generated
// commands. Detected once at startup and treated as immutable for the
// session's lifetime.
type SystemProfile struct {
	OS       string // runtime.GOOS family, e.g. "linux", "darwin"
	Distro   string // e.g. "Manjaro Linux 24.0", empty outside Linux
	Desktop  string // e.g. "KDE", "GNOME", empty when headless/unknown
	Shell    string // absolute path or bare name of the execution shell
	Terminal string // preferred terminal emulator, derived from Desktop
}

// Describe renders the profile as a single prompt-friendly line.
func (p SystemProfile) Describe() string {
	parts := []string{p.OS}
	if p.Distro != "" {
		parts = append(parts, p.Distro)
	}
	if p.Desktop != "" {
		parts = append(parts, p.Desktop+" desktop")
	}
	if p.Shell != "" {
		parts = append(parts, p.Shell+" shell")
	}
	return strings.Join(parts, ", ")
}
