// Package genai generates workout plans with the OpenAI chat completion API.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/claude/fithome/internal/models"
)

// ErrNoChoicesReturned is returned when the API answers without any choice.
var ErrNoChoicesReturned = errors.New("no choices returned")

// chatService is the slice of the chat completions API the client needs.
type chatService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Options configures the OpenAI client.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client generates plans through a chat completion model.
type Client struct {
	chat   chatService
	model  openai.ChatModel
	logger *slog.Logger
}

// NewClient creates a Client from options. The API key is required.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai api key not set")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	model := openai.ChatModel(opts.Model)
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(reqOpts...)
	return &Client{chat: &cli.Chat.Completions, model: model, logger: logger}, nil
}

// GeneratePlan asks the model for a plan matching prefs.
func (c *Client) GeneratePlan(ctx context.Context, prefs models.Preferences) (*models.Plan, error) {
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preferences: %w", err)
	}

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(prefs)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ErrNoChoicesReturned
	}

	content := resp.Choices[0].Message.Content
	plan, err := parsePlan(content)
	if err != nil {
		c.logger.Debug("unparseable plan response", "content", content)
		return nil, err
	}
	c.logger.Info("generated plan",
		"goal", prefs.Goal,
		"duration", prefs.Duration,
		"warmup", len(plan.Warmup),
		"rounds", len(plan.Rounds),
		"cooldown", len(plan.Cooldown),
	)
	return plan, nil
}

// parsePlan decodes the model output, tolerating a Markdown code fence.
// Sections absent from the JSON stay nil so callers can reject them.
func parsePlan(content string) (*models.Plan, error) {
	body := stripCodeFence(content)
	if body == "" {
		return nil, fmt.Errorf("decoding plan: empty response")
	}
	var plan models.Plan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return &plan, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
