// Package profile detects the host system profile used to tailor generated
// commands.
package profile

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

const osReleasePath = "/etc/os-release"

// terminalByDesktop maps desktop environments to their native terminal
// emulator, so a terminal-launch request yields konsole under KDE instead of
// a generic binary.
var terminalByDesktop = map[string]string{
	"kde":      "konsole",
	"gnome":    "gnome-terminal",
	"xfce":     "xfce4-terminal",
	"lxqt":     "qterminal",
	"cinnamon": "gnome-terminal",
	"mate":     "mate-terminal",
}

// Detector reads the host environment once; config overrides win over
// detection. Implements ports.ProfileDetector.
type Detector struct {
	// OSReleasePath is swappable in tests; defaults to /etc/os-release.
	OSReleasePath string
}

func NewDetector() *Detector {
	return &Detector{OSReleasePath: osReleasePath}
}

// Detect implements ports.ProfileDetector.
func (d *Detector) Detect(_ context.Context, cfg domain.Config) (domain.SystemProfile, error) {
	p := domain.SystemProfile{
		OS:      runtime.GOOS,
		Shell:   detectShell(),
		Desktop: detectDesktop(),
	}
	if p.OS == "linux" {
		p.Distro = d.readDistro()
	}

	if o := cfg.Profile.OS; o != "" {
		p.OS = o
	}
	if o := cfg.Profile.Distro; o != "" {
		p.Distro = o
	}
	if o := cfg.Profile.Desktop; o != "" {
		p.Desktop = o
	}
	if o := cfg.Profile.Shell; o != "" {
		p.Shell = o
	}
	if o := cfg.Execution.Shell; o != "" && o != "auto" {
		p.Shell = o
	}

	p.Terminal = terminalByDesktop[strings.ToLower(p.Desktop)]
	return p, nil
}

func detectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

func detectDesktop() string {
	if de := os.Getenv("XDG_CURRENT_DESKTOP"); de != "" {
		// May be colon-separated, e.g. "ubuntu:GNOME"; the last entry names the DE.
		parts := strings.Split(de, ":")
		return parts[len(parts)-1]
	}
	return os.Getenv("DESKTOP_SESSION")
}

// readDistro parses NAME and VERSION_ID from os-release.
func (d *Detector) readDistro() string {
	path := d.OSReleasePath
	if path == "" {
		path = osReleasePath
	}
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var name, version string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "NAME="):
			name = strings.Trim(strings.TrimPrefix(line, "NAME="), `"`)
		case strings.HasPrefix(line, "VERSION_ID="):
			version = strings.Trim(strings.TrimPrefix(line, "VERSION_ID="), `"`)
		}
	}
	if name == "" {
		return ""
	}
	if version == "" {
		return name
	}
	return name + " " + version
}

var _ ports.ProfileDetector = (*Detector)(nil)
