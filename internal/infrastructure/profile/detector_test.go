package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/voco/internal/domain"
)

func TestDetectAppliesOverrides(t *testing.T) {
	d := NewDetector()
	cfg := domain.Config{
		Profile: domain.ProfileOverrides{
			OS:      "linux",
			Distro:  "Manjaro Linux",
			Desktop: "KDE",
			Shell:   "/bin/zsh",
		},
	}

	p, err := d.Detect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if p.OS != "linux" || p.Distro != "Manjaro Linux" || p.Desktop != "KDE" || p.Shell != "/bin/zsh" {
		t.Errorf("profile = %+v", p)
	}
	if p.Terminal != "konsole" {
		t.Errorf("Terminal = %q, want konsole for KDE", p.Terminal)
	}
}

func TestDetectExecutionShellWins(t *testing.T) {
	d := NewDetector()
	cfg := domain.Config{
		Profile:   domain.ProfileOverrides{Shell: "/bin/zsh"},
		Execution: domain.ExecutionSettings{Shell: "/bin/bash"},
	}
	p, err := d.Detect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if p.Shell != "/bin/bash" {
		t.Errorf("Shell = %q, want execution override", p.Shell)
	}
}

func TestReadDistro(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "os-release")
	content := "NAME=\"Manjaro Linux\"\nID=manjaro\nVERSION_ID=\"24.0\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Detector{OSReleasePath: path}
	if got := d.readDistro(); got != "Manjaro Linux 24.0" {
		t.Errorf("readDistro() = %q", got)
	}

	d = &Detector{OSReleasePath: filepath.Join(dir, "missing")}
	if got := d.readDistro(); got != "" {
		t.Errorf("readDistro() on missing file = %q, want empty", got)
	}
}

func TestUnknownDesktopHasNoTerminalHint(t *testing.T) {
	d := NewDetector()
	cfg := domain.Config{Profile: domain.ProfileOverrides{Desktop: "ratpoison"}}
	p, _ := d.Detect(context.Background(), cfg)
	if p.Terminal != "" {
		t.Errorf("Terminal = %q, want empty for unknown desktop", p.Terminal)
	}
}
