// Package ai calls the Anthropic messages API to rewrite CV content into
// polished Arabic or English. Every caller must tolerate the client being
// disabled (no API key) and fall back to the local stub.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nasreldeenmohamed/sera-pro-server/pkg/ai/formatters"
)

const defaultMaxTokens = 1500

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("ai: no API key configured")

type Client struct {
	client  anthropic.Client
	model   anthropic.Model
	enabled bool
}

// NewClient builds a client. An empty apiKey yields a disabled client whose
// Complete always returns ErrDisabled; callers then use the stub path.
func NewClient(apiKey, model string) *Client {
	c := &Client{model: anthropic.ModelClaude3_7SonnetLatest}
	if model != "" {
		c.model = anthropic.Model(model)
	}
	if apiKey == "" {
		return c
	}
	c.client = anthropic.NewClient(option.WithAPIKey(apiKey))
	c.enabled = true
	return c
}

func (c *Client) Enabled() bool { return c.enabled }

// Complete sends one system+user exchange and returns the text response,
// retrying transport failures with exponential backoff.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}

	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       c.model,
			MaxTokens:   defaultMaxTokens,
			Temperature: anthropic.Float(0.2),
			System:      []anthropic.TextBlockParam{{Text: system}},
			Messages: []anthropic.MessageParam{{
				Content: []anthropic.ContentBlockParamUnion{{
					OfText: &anthropic.TextBlockParam{Text: prompt},
				}},
				Role: anthropic.MessageParamRoleUser,
			}},
		})
		if err == nil {
			if len(resp.Content) == 0 {
				return "", errors.New("ai: empty response")
			}
			return resp.Content[0].AsText().Text, nil
		}
		lastErr = err
		// exponential backoff before retrying
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("ai: request failed after %d attempts: %w", attempts, lastErr)
}

// Factory methods for the per-section formatters.

func (c *Client) NewSummaryFormatter(lang string) formatters.Formatter {
	return formatters.NewSummaryFormatter(c, lang)
}

func (c *Client) NewExperienceFormatter(lang string) formatters.Formatter {
	return formatters.NewExperienceFormatter(c, lang)
}

func (c *Client) NewSkillsFormatter(lang string) formatters.Formatter {
	return formatters.NewSkillsFormatter(c, lang)
}
