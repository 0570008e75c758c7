package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/okian/focusfork/pkg/logger"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o"

// OpenAIGenerator uses the Responses API. The schema is carried in the
// instructions.
type OpenAIGenerator struct {
	client    openai.Client
	model     string
	maxTokens int64
	logger    logger.Logger
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(apiKey, model string, opts ...Option) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("openai")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}
	return &OpenAIGenerator{
		client:    openai.NewClient(reqOpts...),
		model:     model,
		maxTokens: o.maxOutputTokens,
		logger:    o.logger,
	}, nil
}

// Name returns the provider and model.
func (g *OpenAIGenerator) Name() string { return "openai:" + g.model }

// Generate runs one Responses.New call.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	params := responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(g.maxTokens),
		Temperature:     openai.Float(float64(req.Temperature)),
		Instructions:    openai.String(req.System + "\n\n" + jsonInstruction(req.Schema)),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)},
	}
	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai generate: %w", err)
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}
	text := stripFences(resp.OutputText())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	g.logger.Debug(ctx, "openai response received", logger.Int("bytes", len(text)))
	return json.RawMessage(text), nil
}
