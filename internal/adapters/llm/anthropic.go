package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/okian/focusfork/pkg/logger"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicGenerator asks Claude for a JSON document. The schema is carried in
// the system prompt.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	logger    logger.Logger
}

// NewAnthropic creates an Anthropic generator.
func NewAnthropic(apiKey, model string, opts ...Option) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("anthropic")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}
	return &AnthropicGenerator{
		client:    anthropic.NewClient(reqOpts...),
		model:     anthropic.Model(model),
		maxTokens: o.maxOutputTokens,
		logger:    o.logger,
	}, nil
}

// Name returns the provider and model.
func (a *AnthropicGenerator) Name() string { return "anthropic:" + string(a.model) }

// Generate runs one Messages.New call and joins the text blocks.
func (a *AnthropicGenerator) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	system := strings.TrimSpace(req.System + "\n\n" + jsonInstruction(req.Schema))
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(float64(req.Temperature)),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic generate: %w", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for i := range resp.Content {
		if block := &resp.Content[i]; block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	text := stripFences(sb.String())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	a.logger.Debug(ctx, "anthropic response received",
		logger.Int("bytes", len(text)), logger.String("stopReason", string(resp.StopReason)))
	return json.RawMessage(text), nil
}
