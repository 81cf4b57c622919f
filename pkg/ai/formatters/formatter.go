// Package formatters holds the per-section prompt builders used by CV
// enhancement. Each formatter asks the model for a single JSON object and
// refuses anything it cannot parse back out.
package formatters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Completer is the one model call a formatter needs. Satisfied by ai.Client
// and by test fakes.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Formatter rewrites a piece of CV content. extra carries optional context
// such as the job title the content belongs to.
type Formatter interface {
	Format(ctx context.Context, content string, extra map[string]interface{}) (string, error)
}

// systemPrompt is shared by all formatters; lang steers the output language.
func systemPrompt(lang string) string {
	if lang == "ar" {
		return "You are a professional CV writer. Respond in Modern Standard Arabic only. " +
			"Return ONLY a single JSON object, no commentary, no markdown, no code fences."
	}
	return "You are a professional CV writer. Respond in English only. " +
		"Return ONLY a single JSON object, no commentary, no markdown, no code fences."
}

// ExtractJSON parses a model response into a map. It strips markdown fences
// first and then falls back to the first-'{'..last-'}' substring, since
// models occasionally wrap the object in prose.
func ExtractJSON(s string) (map[string]interface{}, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, nil
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		sub := s[start : end+1]
		if err := json.Unmarshal([]byte(sub), &out); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("ai returned non-json content")
}

// enhancedField pulls the "enhanced" string out of a parsed response.
func enhancedField(m map[string]interface{}) (string, error) {
	v, ok := m["enhanced"].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("ai response missing enhanced field")
	}
	return strings.TrimSpace(v), nil
}

func marshalExtra(extra map[string]interface{}) string {
	if len(extra) == 0 {
		return "{}"
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return "{}"
	}
	return string(b)
}
