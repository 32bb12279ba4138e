// Package doctor runs environment diagnostics: configuration, model
// endpoints, speech tooling, and the guardrail.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ProfileDetector ports.ProfileDetector
	SecurityService ports.SecurityService

	// HTTPClient is used for endpoint reachability probes; a short-timeout
	// default is installed when nil.
	HTTPClient *http.Client
}

// Run executes checks and returns a report. Only a config load failure aborts
// the remaining checks.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s, %d models", cfg.ConfigFormatVersion, len(cfg.Models))))

	checks = append(checks, modelCheck("Conversation model", cfg.Preferences.ConversationModel, cfg))
	checks = append(checks, modelCheck("Command model", cfg.Preferences.CommandModel, cfg))

	for _, model := range cfg.Models {
		checks = append(checks, s.endpointCheck(ctx, model))
	}
	checks = append(checks, apiKeyCheck(cfg.Models))

	checks = append(checks, binaryCheck("Transcriber", cfg.Voice.TranscribeCommand))
	checks = append(checks, binaryCheck("Speaker", cfg.Voice.SpeakCommand))
	checks = append(checks, binaryCheck("Notifier", cfg.Voice.NotifyCommand))

	if s.SecurityService != nil {
		if _, err := s.SecurityService.Evaluate("ls"); err != nil {
			checks = append(checks, fail("Guardrail", err.Error()))
		} else {
			checks = append(checks, ok("Guardrail", "rules loaded"))
		}
	} else if cfg.Security.Enabled {
		checks = append(checks, warn("Guardrail", "enabled but not initialized"))
	}

	if s.ProfileDetector != nil {
		if profile, err := s.ProfileDetector.Detect(ctx, cfg); err == nil {
			checks = append(checks, ok("System profile", profile.Describe()))
		} else {
			checks = append(checks, warn("System profile", err.Error()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func modelCheck(name, ref string, cfg domain.Config) domain.HealthCheck {
	if ref == "" {
		return warn(name, "not configured")
	}
	model, found := cfg.FindModelByName(ref)
	if !found {
		return fail(name, fmt.Sprintf("%s not found in models list", ref))
	}
	return ok(name, fmt.Sprintf("%s (%s)", model.Name, model.ModelID))
}

func (s *Service) endpointCheck(ctx context.Context, model domain.ModelDefinition) domain.HealthCheck {
	name := fmt.Sprintf("Endpoint %s", model.Name)
	if model.Endpoint == "" {
		return warn(name, "no endpoint configured")
	}
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL(model.Endpoint), nil)
	if err != nil {
		return warn(name, err.Error())
	}
	resp, err := client.Do(req)
	if err != nil {
		return warn(name, fmt.Sprintf("unreachable: %v", err))
	}
	resp.Body.Close()
	return ok(name, fmt.Sprintf("reachable (%d)", resp.StatusCode))
}

// probeURL strips the generate path so the check hits the server root, which
// Ollama answers on plain GET.
func probeURL(endpoint string) string {
	if idx := strings.Index(endpoint, "/api/generate"); idx > 0 {
		return endpoint[:idx]
	}
	return endpoint
}

func binaryCheck(name string, argv []string) domain.HealthCheck {
	if len(argv) == 0 {
		return warn(name, "no command configured")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return fail(name, fmt.Sprintf("%s not found in PATH", argv[0]))
	}
	return ok(name, argv[0])
}

func apiKeyCheck(models []domain.ModelDefinition) domain.HealthCheck {
	for _, model := range models {
		if isLocalEndpoint(model.Endpoint) {
			continue
		}
		if envMissing(model.AuthEnvVar, "OPENAI_API_KEY") {
			missing := model.AuthEnvVar
			if missing == "" {
				missing = "OPENAI_API_KEY"
			}
			return warn("API keys", fmt.Sprintf("%s missing for model %s", missing, model.Name))
		}
	}
	return ok("API keys", "present for configured hosted models")
}

func isLocalEndpoint(endpoint string) bool {
	return endpoint == "" ||
		strings.Contains(endpoint, "/api/generate") ||
		strings.Contains(endpoint, "11434")
}

func envMissing(primary, fallback string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	if fallback != "" && os.Getenv(fallback) != "" {
		return false
	}
	return true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
