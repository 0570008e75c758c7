package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/okian/focusfork/pkg/logger"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-pro"

// ContentGenerator is the slice of the genai Models service the generators
// and the chat assistant use. *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiModels builds a genai client for the Gemini API and returns its
// Models service.
func NewGeminiModels(ctx context.Context, apiKey string, opts ...Option) (ContentGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return client.Models, nil
}

// GeminiGenerator requests application/json output constrained by a
// response schema.
type GeminiGenerator struct {
	models    ContentGenerator
	model     string
	maxTokens int64
	logger    logger.Logger
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, apiKey, model string, opts ...Option) (*GeminiGenerator, error) {
	models, err := NewGeminiModels(ctx, apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return NewGeminiWithModels(models, model, opts...), nil
}

// NewGeminiWithModels wraps an existing Models service.
func NewGeminiWithModels(models ContentGenerator, model string, opts ...Option) *GeminiGenerator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("gemini")
	}
	return &GeminiGenerator{models: models, model: model, maxTokens: o.maxOutputTokens, logger: o.logger}
}

// Name returns the provider and model.
func (g *GeminiGenerator) Name() string { return "gemini:" + g.model }

// Generate runs one GenerateContent call.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	temp := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		MaxOutputTokens:  int32(g.maxTokens), //nolint:gosec // bounded by options
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGeminiSchema(req.Schema),
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}}, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}
	text := stripFences(resp.Text())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	g.logger.Debug(ctx, "gemini response received", logger.Int("bytes", len(text)))
	return json.RawMessage(text), nil
}

func toGeminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		MinItems:    s.MinItems,
		MaxItems:    s.MaxItems,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
	case TypeArray:
		out.Type = genai.TypeArray
	case TypeInteger:
		out.Type = genai.TypeInteger
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toGeminiSchema(p)
		}
	}
	if s.Items != nil {
		out.Items = toGeminiSchema(s.Items)
	}
	return out
}
