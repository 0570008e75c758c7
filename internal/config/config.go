// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and FOCUSFORK_* env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GitHubToken authenticates search calls. Empty means unauthenticated.
	GitHubToken string `koanf:"github_token"`

	// GitHubBaseURL points at GitHub Enterprise; empty uses api.github.com.
	GitHubBaseURL string `koanf:"github_base_url"`

	// SearchTimeoutMS bounds each GitHub call.
	SearchTimeoutMS int `koanf:"search_timeout_ms"`

	// LLMProvider is one of gemini, anthropic, openai.
	LLMProvider string `koanf:"llm_provider"`
	LLMAPIKey   string `koanf:"llm_api_key"`
	LLMModel    string `koanf:"llm_model"`

	// PlanTimeoutMS bounds plan generation before falling back.
	PlanTimeoutMS   int     `koanf:"plan_timeout_ms"`
	PlanTemperature float64 `koanf:"plan_temperature"`

	// DirectIssueMode is fetch or placeholder.
	DirectIssueMode string `koanf:"direct_issue_mode"`

	DefaultLanguage   string `koanf:"default_language"`
	DefaultSkillLevel string `koanf:"default_skill_level"`

	// Chat always talks to Gemini. ChatAPIKey falls back to LLMAPIKey when
	// the plan provider is gemini.
	ChatEnabled bool   `koanf:"chat_enabled"`
	ChatModel   string `koanf:"chat_model"`
	ChatAPIKey  string `koanf:"chat_api_key"`

	// TraceExporter is none or stdout.
	TraceExporter string `koanf:"trace_exporter"`
	ServiceName   string `koanf:"service_name"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		SearchTimeoutMS:   15_000,
		LLMProvider:       "gemini",
		LLMModel:          "gemini-1.5-pro",
		PlanTimeoutMS:     25_000,
		PlanTemperature:   0.2,
		DirectIssueMode:   "fetch",
		DefaultLanguage:   "typescript",
		DefaultSkillLevel: "beginner",
		ChatEnabled:       true,
		ChatModel:         "gemini-1.5-flash",
		TraceExporter:     "none",
		ServiceName:       "focusfork",
	}
}

// SearchTimeout returns SearchTimeoutMS as a duration.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMS) * time.Millisecond
}

// PlanTimeout returns PlanTimeoutMS as a duration.
func (c *Config) PlanTimeout() time.Duration {
	return time.Duration(c.PlanTimeoutMS) * time.Millisecond
}

// ResolvedChatAPIKey returns the key used for the chat assistant.
func (c *Config) ResolvedChatAPIKey() string {
	if c.ChatAPIKey != "" {
		return c.ChatAPIKey
	}
	if c.LLMProvider == "gemini" {
		return c.LLMAPIKey
	}
	return ""
}
