// Package config loads YAML configuration from disk, seeding the file with
// embedded defaults on first run.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/voco/assets"
	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/pkg/filesystem"
	"github.com/doeshing/voco/internal/ports"
)

// FileLoader loads ~/.voco/config.yaml (overridable via VOCO_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a loader. An empty path keeps the default resolution
// order: VOCO_CONFIG, then ~/.voco/config.yaml.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is seeded from the
// embedded defaults; a malformed or inconsistent file is an error.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, fmt.Errorf("create config directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		data = assets.DefaultConfigYAML
		if werr := os.WriteFile(path, data, domain.SecureFilePermissions); werr != nil {
			return domain.Config{}, fmt.Errorf("seed default config: %w", werr)
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg = hydrateDefaults(cfg)
	if err := cfg.ValidateConsistency(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Path reports the config file location this loader reads.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("VOCO_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".voco", "config.yaml")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.ConversationModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.ConversationModel = cfg.Models[0].Name
	}
	if cfg.Preferences.CommandModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.CommandModel = cfg.Models[0].Name
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = "auto"
	}
	if cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = filepath.Join(filesystem.UserHomeDir(), ".voco", "guardrail.yaml")
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filesystem.UserHomeDir(), ".voco", "history.db")
	}
	return cfg
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
