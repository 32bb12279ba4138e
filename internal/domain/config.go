package domain

import (
	"fmt"
	"time"
)

// Config mirrors ~/.voco/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Voice               VoiceSettings     `yaml:"voice"`
	Execution           ExecutionSettings `yaml:"execution"`
	Profile             ProfileOverrides  `yaml:"profile"`
	Security            SecuritySettings  `yaml:"security"`
	History             HistorySettings   `yaml:"history"`
}

// Preferences selects which configured model serves each role.
type Preferences struct {
	ConversationModel string `yaml:"conversation_model"`
	CommandModel      string `yaml:"command_model"`
}

// VoiceSettings configures the audio boundary and the loop's mute window.
type VoiceSettings struct {
	ListenTimeoutSeconds  int      `yaml:"listen_timeout_s"`
	ConfirmTimeoutSeconds int      `yaml:"confirm_timeout_s"`
	CooldownSeconds       int      `yaml:"cooldown_s"`
	TranscribeCommand     []string `yaml:"transcribe_command"`
	SpeakCommand          []string `yaml:"speak_command"`
	NotifyCommand         []string `yaml:"notify_command"`
}

// ExecutionSettings controls how confirmed commands run.
type ExecutionSettings struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"exec_timeout_s"`
	OutputCapBytes int    `yaml:"output_cap_bytes"`
}

// ProfileOverrides pins parts of the detected system profile.
type ProfileOverrides struct {
	OS      string `yaml:"os"`
	Distro  string `yaml:"distro"`
	Desktop string `yaml:"desktop"`
	Shell   string `yaml:"shell"`
}

// SecuritySettings configures the informational guardrail.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// HistorySettings configures the optional command audit store.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ConversationModel resolves the conversation-role model definition.
func (c *Config) ConversationModel() (ModelDefinition, bool) {
	return c.FindModelByName(c.Preferences.ConversationModel)
}

// CommandModel resolves the command-role model definition.
func (c *Config) CommandModel() (ModelDefinition, bool) {
	return c.FindModelByName(c.Preferences.CommandModel)
}

// FindModelByName searches for a model by its name.
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration.
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// ListenTimeout returns the listening window duration with default fallback.
func (c *Config) ListenTimeout() time.Duration {
	return secondsOr(c.Voice.ListenTimeoutSeconds, DefaultListenTimeout)
}

// ConfirmTimeout returns the confirmation listening window with default fallback.
func (c *Config) ConfirmTimeout() time.Duration {
	return secondsOr(c.Voice.ConfirmTimeoutSeconds, DefaultConfirmTimeout)
}

// Cooldown returns the post-speech mute window with default fallback.
func (c *Config) Cooldown() time.Duration {
	return secondsOr(c.Voice.CooldownSeconds, DefaultCooldown)
}

// ExecTimeout returns the command execution timeout with default fallback.
func (c *Config) ExecTimeout() time.Duration {
	return secondsOr(c.Execution.TimeoutSeconds, DefaultExecTimeout)
}

// OutputCap returns the executor capture cap in bytes with default fallback.
func (c *Config) OutputCap() int {
	if c.Execution.OutputCapBytes <= 0 {
		return DefaultOutputCapBytes
	}
	return c.Execution.OutputCapBytes
}

// ValidateConsistency checks that model role references resolve.
func (c *Config) ValidateConsistency() error {
	if c.Preferences.ConversationModel != "" && !c.HasModel(c.Preferences.ConversationModel) {
		return fmt.Errorf("conversation model %s does not exist in models list", c.Preferences.ConversationModel)
	}
	if c.Preferences.CommandModel != "" && !c.HasModel(c.Preferences.CommandModel) {
		return fmt.Errorf("command model %s does not exist in models list", c.Preferences.CommandModel)
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("no models configured")
	}
	return nil
}

func secondsOr(value int, def time.Duration) time.Duration {
	if value <= 0 {
		return def
	}
	return time.Duration(value) * time.Second
}
