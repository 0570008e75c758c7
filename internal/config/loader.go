package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/focusfork/internal/domain/issue"
)

// Environment names read by Load.
const (
	EnvPrefix = "FOCUSFORK_"
	EnvFile   = "FOCUSFORK_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if FOCUSFORK_CONFIG is set
//  3. env (prefix FOCUSFORK_)
//
// GITHUB_TOKEN and GEMINI_API_KEY are honoured when the matching keys are
// still empty after layering.
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// FOCUSFORK_PLAN_TIMEOUT_MS -> plan_timeout_ms (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.LLMAPIKey == "" && strings.EqualFold(cfg.LLMProvider, "gemini") {
		cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.DirectIssueMode = strings.ToLower(strings.TrimSpace(c.DirectIssueMode))
	c.TraceExporter = strings.ToLower(strings.TrimSpace(c.TraceExporter))
	c.DefaultSkillLevel = strings.ToLower(strings.TrimSpace(c.DefaultSkillLevel))
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SearchTimeoutMS <= 0:
		return fmt.Errorf("%w: search_timeout_ms must be positive", ErrInvalidConfig)
	case c.PlanTimeoutMS <= 0:
		return fmt.Errorf("%w: plan_timeout_ms must be positive", ErrInvalidConfig)
	case c.PlanTemperature < 0 || c.PlanTemperature > 2:
		return fmt.Errorf("%w: plan_temperature %v outside [0,2]", ErrInvalidConfig, c.PlanTemperature)
	case c.DefaultLanguage == "":
		return fmt.Errorf("%w: default_language must not be empty", ErrInvalidConfig)
	}
	if !oneOf(c.LLMProvider, "gemini", "anthropic", "openai") {
		return fmt.Errorf("%w: llm_provider %q", ErrInvalidConfig, c.LLMProvider)
	}
	if !oneOf(c.DirectIssueMode, "fetch", "placeholder") {
		return fmt.Errorf("%w: direct_issue_mode %q", ErrInvalidConfig, c.DirectIssueMode)
	}
	if !oneOf(c.TraceExporter, "none", "stdout") {
		return fmt.Errorf("%w: trace_exporter %q", ErrInvalidConfig, c.TraceExporter)
	}
	if !oneOf(c.LogFormat, "text", "json") {
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := issue.ParseSkillLevel(c.DefaultSkillLevel); err != nil {
		return fmt.Errorf("%w: default_skill_level: %v", ErrInvalidConfig, err)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
