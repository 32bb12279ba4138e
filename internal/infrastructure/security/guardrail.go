// Package security implements the informational guardrail: regex rules that
// turn a proposed command into risk notes spoken during the final
// confirmation. The guardrail never blocks execution on its own; the voice
// confirmations remain the only gate.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/voco/assets"
	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/pkg/filesystem"
	"github.com/doeshing/voco/internal/ports"
)

// Guardrail evaluates proposed commands against a list of regex rules and
// reports the most severe matching risk level.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern is one regex rule from the rules file.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema of ~/.voco/guardrail.yaml.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads rules from path, falling back to the embedded defaults
// when the file is absent. A present but malformed file is an error.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return compileRules(rules)
}

// NewDefaultGuardrail builds a guardrail from the embedded rules only.
func NewDefaultGuardrail() (*Guardrail, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(assets.DefaultGuardrailYAML, &rules); err != nil {
		return nil, fmt.Errorf("parse embedded guardrail rules: %w", err)
	}
	return compileRules(rules)
}

func compileRules(rules RulesFile) (*Guardrail, error) {
	patterns := make([]compiledPattern, 0, len(rules.Rules.DangerPatterns))
	for _, rule := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile guardrail pattern %q: %w", rule.Pattern, err)
		}
		patterns = append(patterns, compiledPattern{re: re, rule: rule})
	}
	return &Guardrail{patterns: patterns}, nil
}

// Evaluate implements ports.SecurityService. The returned assessment is
// informational: callers speak it, they do not act on it.
func (g *Guardrail) Evaluate(command string) (domain.RiskAssessment, error) {
	assessment := domain.RiskAssessment{Level: domain.RiskSafe}
	for _, p := range g.patterns {
		if !p.re.MatchString(command) {
			continue
		}
		level := parseRiskLevel(p.rule.Level)
		if moreSevere(level, assessment.Level) {
			assessment.Level = level
		}
		assessment.Reasons = append(assessment.Reasons, p.rule.Message)
		assessment.MatchedRules = append(assessment.MatchedRules, p.rule.Pattern)
	}
	return assessment, nil
}

// RuleCount reports how many rules are loaded; used by the doctor checks.
func (g *Guardrail) RuleCount() int {
	return len(g.patterns)
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			data = assets.DefaultGuardrailYAML
		} else {
			return rules, fmt.Errorf("read guardrail rules: %w", err)
		}
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse guardrail rules: %w", err)
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskSafe
	}
}

func moreSevere(next, current domain.RiskLevel) bool {
	return severity(next) > severity(current)
}

func severity(level domain.RiskLevel) int {
	switch level {
	case domain.RiskLow:
		return 1
	case domain.RiskMedium:
		return 2
	case domain.RiskHigh:
		return 3
	case domain.RiskCritical:
		return 4
	default:
		return 0
	}
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".voco", "guardrail.yaml")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}

var _ ports.SecurityService = (*Guardrail)(nil)
