// Package llm adapts structured-output model APIs to a single Generator seam.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Request is one structured generation call.
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	Temperature float32
}

// Generator produces a JSON document for a Request.
type Generator interface {
	Generate(ctx context.Context, req Request) (json.RawMessage, error)
	Name() string
}

// Schema is a provider-neutral subset of JSON Schema.
type Schema struct {
	Type        string
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	MinItems    *int64
	MaxItems    *int64
	Minimum     *float64
	Maximum     *float64
}

// Schema types.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
)

// JSONSchema renders s as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": s.Type}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if s.MinItems != nil {
		out["minItems"] = *s.MinItems
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	return out
}

// jsonInstruction is appended to prompts for providers without native schema
// enforcement.
func jsonInstruction(s *Schema) string {
	if s == nil {
		return "Respond with a single JSON object and nothing else."
	}
	doc, _ := json.Marshal(s.JSONSchema())
	return "Respond with a single JSON object and nothing else. It must validate against this JSON Schema:\n" + string(doc)
}

// stripFences removes a surrounding markdown code fence from model text.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
