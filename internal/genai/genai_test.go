package genai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/claude/fithome/internal/models"
)

// mockChatService implements chatService for testing.
type mockChatService struct {
	resp   *openai.ChatCompletion
	err    error
	params openai.ChatCompletionNewParams
}

func (m *mockChatService) New(_ context.Context, params openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.params = params
	return m.resp, m.err
}

func reply(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func testClient(chat chatService) *Client {
	return &Client{chat: chat, model: openai.ChatModelGPT4oMini, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func testPrefs() models.Preferences {
	return models.Preferences{
		Duration:             20,
		SkillLevel:           models.SkillIntermediate,
		Goal:                 models.GoalHIIT,
		Equipment:            []string{"bodyweight"},
		Rounds:               3,
		IncludeWarmup:        true,
		WarmupDuration:       5,
		IncludeCooldown:      true,
		CooldownDuration:     5,
		RestBetweenExercises: 15,
		RestBetweenRounds:    60,
	}
}

const planJSON = `{"warmup":[{"name":"Jumping Jacks","duration_sec":60}],"rounds":[{"name":"Burpees","reps":10},{"name":"Squats","reps":15}],"cooldown":[]}`

// TestGeneratePlanSuccess checks a well-formed reply is decoded.
func TestGeneratePlanSuccess(t *testing.T) {
	chat := &mockChatService{resp: reply(planJSON)}
	plan, err := testClient(chat).GeneratePlan(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if !plan.Complete() {
		t.Fatalf("plan incomplete: %+v", plan)
	}
	if len(plan.Rounds) != 2 || plan.Rounds[0].Reps != 10 {
		t.Errorf("Rounds = %+v", plan.Rounds)
	}
	if plan.Warmup[0].DurationSec != 60 {
		t.Errorf("Warmup = %+v", plan.Warmup)
	}
	if chat.params.Model != openai.ChatModelGPT4oMini {
		t.Errorf("Model = %q", chat.params.Model)
	}
	if len(chat.params.Messages) != 2 {
		t.Errorf("sent %d messages, want 2", len(chat.params.Messages))
	}
}

// TestGeneratePlanCodeFence checks fenced replies are accepted.
func TestGeneratePlanCodeFence(t *testing.T) {
	chat := &mockChatService{resp: reply("```json\n" + planJSON + "\n```")}
	plan, err := testClient(chat).GeneratePlan(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if !plan.Complete() {
		t.Errorf("plan incomplete: %+v", plan)
	}
}

// TestGeneratePlanMissingSection checks an absent section decodes as nil.
func TestGeneratePlanMissingSection(t *testing.T) {
	chat := &mockChatService{resp: reply(`{"warmup":[],"rounds":[]}`)}
	plan, err := testClient(chat).GeneratePlan(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if plan.Complete() || plan.Cooldown != nil {
		t.Errorf("expected missing cooldown, got %+v", plan)
	}
}

// TestGeneratePlanErrors checks service and decoding failures.
func TestGeneratePlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		chat    *mockChatService
		wantErr error
		wantMsg string
	}{
		{"service error", &mockChatService{err: errors.New("service failure")}, nil, "service failure"},
		{"nil response", &mockChatService{}, ErrNoChoicesReturned, ""},
		{"no choices", &mockChatService{resp: &openai.ChatCompletion{}}, ErrNoChoicesReturned, ""},
		{"not json", &mockChatService{resp: reply("here is your workout!")}, nil, "decoding plan"},
		{"empty", &mockChatService{resp: reply("   ")}, nil, "empty response"},
		{"wrong shape", &mockChatService{resp: reply(`{"warmup":"stretch","rounds":[],"cooldown":[]}`)}, nil, "decoding plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testClient(tt.chat).GeneratePlan(context.Background(), testPrefs())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

// TestGeneratePlanInvalidPreferences checks the API is not called for bad input.
func TestGeneratePlanInvalidPreferences(t *testing.T) {
	chat := &mockChatService{resp: reply(planJSON)}
	prefs := testPrefs()
	prefs.Rounds = 0
	if _, err := testClient(chat).GeneratePlan(context.Background(), prefs); err == nil {
		t.Fatal("expected error")
	}
	if len(chat.params.Messages) != 0 {
		t.Error("chat service should not be called")
	}
}

// TestStripCodeFence covers fence variants.
func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"```", ""},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestUserPrompt checks the preference record is reflected in the prompt.
func TestUserPrompt(t *testing.T) {
	p := testPrefs()
	got := userPrompt(p)
	for _, want := range []string{"20-minute HIIT", "intermediate", "bodyweight", "3 rounds", "5-minute warm-up", "5-minute cool-down", "15 seconds", "60 seconds"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}

	p.IncludeWarmup, p.IncludeCooldown, p.Equipment = false, false, nil
	got = userPrompt(p)
	for _, want := range []string{"No warm-up", "No cool-down", "equipment: none"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

// TestNewClient checks the API key requirement.
func TestNewClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewClient(Options{}, logger); err == nil {
		t.Error("expected error without api key")
	}
	c, err := NewClient(Options{APIKey: "test-key"}, logger)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.model != openai.ChatModelGPT4oMini {
		t.Errorf("default model = %q", c.model)
	}
	c, err = NewClient(Options{APIKey: "test-key", Model: "gpt-4o"}, logger)
	if err != nil {
		t.Fatal(err)
	}
	if c.model != "gpt-4o" {
		t.Errorf("model = %q", c.model)
	}
}
