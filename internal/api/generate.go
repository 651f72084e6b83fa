package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/festwork/gala/pkg/models"
)

// Generate makes one generation call with a synthesized system preamble and a
// normalized message sequence, and returns the concatenated response text.
// The message slice must already be normalized; system-role entries are
// ignored here because the preamble is always supplied separately.
func (c *Client) Generate(ctx context.Context, system string, msgs []models.Message) (string, error) {
	return c.generate(ctx, c.model, c.maxTokens, system, msgs)
}

// GenerateWith makes a generation call with a per-call model and token cap,
// used by agents whose profile overrides the client defaults. Zero values
// fall back to the client configuration.
func (c *Client) GenerateWith(ctx context.Context, model anthropic.Model, maxTokens int64, system string, msgs []models.Message) (string, error) {
	if model == "" {
		model = c.model
	} else {
		model = c.TranslateModel(model)
	}
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	return c.generate(ctx, model, maxTokens, system, msgs)
}

func (c *Client) generate(ctx context.Context, model anthropic.Model, maxTokens int64, system string, msgs []models.Message) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: buildMessages(msgs),
	})
	if err != nil {
		return "", fmt.Errorf("generation call: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	log.Printf("[API] %s call: %d in / %d out tokens", model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("generation call returned no text (stop reason %q)", resp.StopReason)
	}
	return out, nil
}

// GenerateJSON makes a generation call and unmarshals the first JSON object
// in the response into out. Models often wrap JSON in prose or code fences;
// both are tolerated.
func (c *Client) GenerateJSON(ctx context.Context, system string, msgs []models.Message, out any) error {
	text, err := c.Generate(ctx, system, msgs)
	if err != nil {
		return err
	}

	raw, err := extractJSON(text)
	if err != nil {
		return fmt.Errorf("structured extraction: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("structured extraction: %w", err)
	}
	return nil
}

// buildMessages converts a normalized transcript into SDK message params.
// Roles other than user and assistant are ignored rather than rejected.
func buildMessages(msgs []models.Message) []anthropic.MessageParam {
	var params []anthropic.MessageParam
	for _, m := range msgs {
		switch m.Role {
		case models.RoleUser:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case models.RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return params
}

// extractJSON returns the first balanced JSON object found in s, stripping
// any markdown code fences around it.
func extractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], nil
				}
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in response")
}
