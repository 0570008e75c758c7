package llm

import (
	"context"
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Providers lists the accepted provider names.
var Providers = []string{ProviderGemini, ProviderAnthropic, ProviderOpenAI}

// KnownProvider reports whether name is a supported provider.
func KnownProvider(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
		return true
	}
	return false
}

// New builds the generator for provider. An empty model selects the
// provider default.
func New(ctx context.Context, provider, apiKey, model string, opts ...Option) (Generator, error) {
	p := strings.ToLower(strings.TrimSpace(provider))
	if !KnownProvider(p) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, p)
	}
	switch p {
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model, opts...)
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model, opts...)
	default:
		return NewGemini(ctx, apiKey, model, opts...)
	}
}
