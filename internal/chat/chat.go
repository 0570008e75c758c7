// Package chat implements the conversational scout: a Gemini conversation
// that can search GitHub issues through a function tool.
package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/okian/focusfork/internal/adapters/github"
	"github.com/okian/focusfork/internal/adapters/llm"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/pkg/logger"
	"github.com/okian/focusfork/pkg/metrics"
)

// Defaults for the assistant.
const (
	DefaultModel         = "gemini-1.5-flash"
	DefaultMaxToolRounds = 4
	SearchLimit          = 5

	searchToolName      = "searchIssues"
	searchFailedMessage = "issue search failed"
)

const systemPrompt = `You are the FocusFork Scout, an expert engineering manager helping developers find open source issues.

Your goal is to understand the user's skill level and interests, and then recommend specific GitHub issues.

1. Ask clarifying questions if the user is vague (for example which language, frontend or backend).
2. Use the searchIssues tool to find real issues when you have enough information.
3. Present the issues clearly.
4. Explain why you picked them, referencing specific traits of each issue.
5. Encourage them to select an issue to start a focus session.

Be concise, professional, and encouraging.`

// Role is the author of a chat message.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// IssueItem is the compact issue shape returned by the search tool.
type IssueItem struct {
	ID      int64    `json:"id"`
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	HTMLURL string   `json:"html_url"`
	Repo    string   `json:"repo"`
	Labels  []string `json:"labels"`
}

// Reply is the assistant's answer plus every issue its tool calls surfaced.
type Reply struct {
	Text   string      `json:"reply"`
	Issues []IssueItem `json:"issues"`
}

// Assistant runs the tool-calling loop. It keeps no conversation state; the
// caller sends the full history each time.
type Assistant struct {
	models    llm.ContentGenerator
	searcher  github.Searcher
	model     string
	maxRounds int
	logger    logger.Logger
}

// New creates an Assistant.
func New(models llm.ContentGenerator, searcher github.Searcher, opts ...Option) *Assistant {
	a := &Assistant{
		models:    models,
		searcher:  searcher,
		model:     DefaultModel,
		maxRounds: DefaultMaxToolRounds,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("chat")
	}
	return a
}

// Reply answers the last user turn. Search failures are reported back to the
// model as tool errors; model failures are returned.
func (a *Assistant) Reply(ctx context.Context, history []Message) (Reply, error) {
	contents, err := toContents(history)
	if err != nil {
		return Reply{}, err
	}

	var out Reply
	seen := map[int64]bool{}
	for round := 0; ; round++ {
		cfg := &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		}
		// The last round runs without tools so the model has to answer in text.
		if round < a.maxRounds {
			cfg.Tools = []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{searchTool()}}}
		}

		resp, err := a.models.GenerateContent(ctx, a.model, contents, cfg)
		if err != nil {
			return Reply{}, fmt.Errorf("%w: %v", ErrModelFailure, err)
		}
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return Reply{}, ErrEmptyResponse
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 || round >= a.maxRounds {
			out.Text = strings.TrimSpace(resp.Text())
			if out.Text == "" {
				return Reply{}, ErrEmptyResponse
			}
			return out, nil
		}

		contents = append(contents, resp.Candidates[0].Content)
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			items, result := a.runTool(ctx, call)
			for _, it := range items {
				if !seen[it.ID] {
					seen[it.ID] = true
					out.Issues = append(out.Issues, it)
				}
			}
			parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: result,
			}})
		}
		contents = append(contents, &genai.Content{Role: "user", Parts: parts})
	}
}

func (a *Assistant) runTool(ctx context.Context, call *genai.FunctionCall) ([]IssueItem, map[string]any) {
	if call.Name != searchToolName {
		metrics.RecordChatToolCall("unknown")
		return nil, map[string]any{"error": "unknown tool " + call.Name}
	}
	query, _ := call.Args["query"].(string)
	if strings.TrimSpace(query) == "" {
		metrics.RecordChatToolCall("error")
		return nil, map[string]any{"error": "query is required"}
	}

	found, err := a.searcher.Search(ctx, query, SearchLimit)
	if err != nil {
		metrics.RecordChatToolCall("error")
		a.logger.Warn(ctx, "chat search failed", logger.String("query", query), logger.Error(err))
		return nil, map[string]any{"error": searchFailedMessage}
	}
	metrics.RecordChatToolCall("ok")

	items := make([]IssueItem, 0, len(found))
	for _, c := range found {
		items = append(items, toItem(c))
	}
	return items, map[string]any{"issues": items}
}

func searchTool() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        searchToolName,
		Description: "Search for open GitHub issues using a query",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query": {
					Type:        genai.TypeString,
					Description: "The search query, for example 'language:typescript label:bug is:open'",
				},
			},
			Required: []string{"query"},
		},
	}
}

func toItem(c issue.CandidateIssue) IssueItem {
	return IssueItem{
		ID:      c.ID,
		Number:  c.Number,
		Title:   c.Title,
		HTMLURL: c.HTMLURL,
		Repo:    c.Repo(),
		Labels:  c.LabelNames(),
	}
}

func toContents(history []Message) ([]*genai.Content, error) {
	if len(history) == 0 {
		return nil, ErrNoMessages
	}
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role string
		switch m.Role {
		case RoleUser:
			role = "user"
		case RoleAssistant:
			role = "model"
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	if len(contents) == 0 {
		return nil, ErrNoMessages
	}
	return contents, nil
}
