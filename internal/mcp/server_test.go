package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fithome/internal/client"
	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/models"
)

type fakeDataSource struct {
	home     *client.HomeResponse
	startErr error
	record   *home.GeneratedRecord
	stats    *models.Stats
	routines []models.Routine
	next     *models.NextChallenge
	plan     *models.Plan
	err      error
	prefs    models.Preferences
}

func (f *fakeDataSource) Home(context.Context) (*client.HomeResponse, error) {
	return f.home, f.err
}

func (f *fakeDataSource) StartSuggested(context.Context) (*client.StartResult, error) {
	return &client.StartResult{}, f.startErr
}

func (f *fakeDataSource) SuggestedPlan(context.Context) (*home.GeneratedRecord, error) {
	return f.record, f.err
}

func (f *fakeDataSource) Stats(context.Context) (*models.Stats, error) {
	return f.stats, f.err
}

func (f *fakeDataSource) Routines(context.Context) ([]models.Routine, error) {
	return f.routines, f.err
}

func (f *fakeDataSource) NextChallenge(context.Context) (*models.NextChallenge, error) {
	return f.next, f.err
}

func (f *fakeDataSource) GeneratePlan(_ context.Context, prefs models.Preferences) (*models.Plan, error) {
	f.prefs = prefs
	return f.plan, f.err
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// TestNewRegistersTools verifies the server builds with its tools and resource.
func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeDataSource{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"get_workout_stats", "list_recent_routines", "get_next_challenge", "suggest_workout", "start_suggested_workout", "generate_workout_plan"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("tool %q not listed", name)
		}
	}
}

// TestListRecentRoutines verifies only the last three come back, newest first.
func TestListRecentRoutines(t *testing.T) {
	ds := &fakeDataSource{routines: []models.Routine{{Name: "one"}, {Name: "two"}, {Name: "three"}, {Name: "four"}}}
	res, err := newHandlers(ds).listRecentRoutines(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if strings.Contains(text, `"one"`) {
		t.Errorf("oldest routine should be dropped: %s", text)
	}
	if strings.Index(text, `"four"`) > strings.Index(text, `"two"`) {
		t.Errorf("routines not newest first: %s", text)
	}
}

// TestGetNextChallengeComplete verifies the all-complete message.
func TestGetNextChallengeComplete(t *testing.T) {
	res, err := newHandlers(&fakeDataSource{}).getNextChallenge(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError || !strings.Contains(resultText(t, res), "complete") {
		t.Errorf("unexpected result: %+v", res)
	}
}

// TestGetNextChallengeProgress verifies progress is reported.
func TestGetNextChallengeProgress(t *testing.T) {
	ds := &fakeDataSource{next: &models.NextChallenge{
		Achievement: models.Achievement{Name: "Dedicated"},
		Tier:        models.Tier{Name: "Bronze", Threshold: 4},
		Current:     1,
	}}
	res, err := newHandlers(ds).getNextChallenge(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, `"remaining":3`) || !strings.Contains(text, "Dedicated") {
		t.Errorf("text = %s", text)
	}
}

// TestGenerateWorkoutPlanArgs verifies tool arguments override the defaults.
func TestGenerateWorkoutPlanArgs(t *testing.T) {
	ds := &fakeDataSource{plan: &models.Plan{Warmup: []models.Step{}, Rounds: []models.Step{}, Cooldown: []models.Step{}}}
	req := callRequest(map[string]any{"goal": "strength", "duration": 30.0, "equipment": "dumbbells, bench", "rounds": 4.0})

	res, err := newHandlers(ds).generateWorkoutPlan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	p := ds.prefs
	if p.Goal != models.GoalStrength || p.Duration != 30 || p.Rounds != 4 {
		t.Errorf("prefs = %+v", p)
	}
	if len(p.Equipment) != 2 || p.Equipment[1] != "bench" {
		t.Errorf("equipment = %v", p.Equipment)
	}
	if p.SkillLevel != models.SkillIntermediate || !p.IncludeWarmup {
		t.Errorf("defaults not applied: %+v", p)
	}
}

// TestGenerateWorkoutPlanInvalid verifies bad arguments are tool errors.
func TestGenerateWorkoutPlanInvalid(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing goal", map[string]any{}},
		{"unknown goal", map[string]any{"goal": "yoga"}},
		{"zero rounds", map[string]any{"goal": "cardio", "rounds": 0.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newHandlers(&fakeDataSource{}).generateWorkoutPlan(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatal(err)
			}
			if !res.IsError {
				t.Error("expected tool error")
			}
		})
	}
}

// TestStartSuggestedWorkout verifies the stored record is returned and failures are tool errors.
func TestStartSuggestedWorkout(t *testing.T) {
	ds := &fakeDataSource{record: &home.GeneratedRecord{Date: "2026-03-10"}}
	res, err := newHandlers(ds).startSuggestedWorkout(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError || !strings.Contains(resultText(t, res), "2026-03-10") {
		t.Errorf("unexpected result: %s", resultText(t, res))
	}

	for _, startErr := range []error{home.ErrAlreadyGenerating, client.ErrGenerationFailed, errors.New("network")} {
		ds.startErr = startErr
		res, err := newHandlers(ds).startSuggestedWorkout(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("%v: expected tool error", startErr)
		}
	}
}

// TestSuggestWorkout verifies the suggestion from the home view is returned.
func TestSuggestWorkout(t *testing.T) {
	sug := home.Suggest(nil)
	ds := &fakeDataSource{home: &client.HomeResponse{View: home.View{Suggestion: &sug}}}
	res, err := newHandlers(ds).suggestWorkout(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), sug.Title) {
		t.Errorf("text = %s", resultText(t, res))
	}
}

// TestHomeResource verifies the home resource serializes the view.
func TestHomeResource(t *testing.T) {
	ds := &fakeDataSource{home: &client.HomeResponse{View: home.View{Greeting: "Good Evening"}, Toasts: []string{}}}
	var req mcp.ReadResourceRequest
	req.Params.URI = "fithome://home"

	contents, err := newHandlers(ds).homeView(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || !strings.Contains(tc.Text, "Good Evening") || tc.URI != "fithome://home" {
		t.Errorf("contents = %+v", contents)
	}
}
