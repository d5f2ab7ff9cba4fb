package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fithome/internal/client"
	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/models"
)

func goalNames() []string {
	names := make([]string, len(models.Goals))
	for i, g := range models.Goals {
		names[i] = string(g)
	}
	return names
}

// --- Tool definitions ---

var toolGetWorkoutStats = mcp.NewTool("get_workout_stats",
	mcp.WithDescription("Total workouts, current daily streak, and minutes trained on each of the last seven days."),
)

var toolListRecentRoutines = mcp.NewTool("list_recent_routines",
	mcp.WithDescription("The three most recently saved workout routines, most recent first."),
)

var toolGetNextChallenge = mcp.NewTool("get_next_challenge",
	mcp.WithDescription("The nearest uncompleted achievement tier with current progress. Reports when every achievement is complete."),
)

var toolSuggestWorkout = mcp.NewTool("suggest_workout",
	mcp.WithDescription("Draw a new suggested workout (random goal and 15, 20 or 30 minutes) as shown on the home screen. The suggestion is remembered for start_suggested_workout."),
)

var toolStartSuggestedWorkout = mcp.NewTool("start_suggested_workout",
	mcp.WithDescription("Generate a full plan for the last suggested workout with AI and store it for the workout builder. Call suggest_workout first."),
)

var toolGenerateWorkoutPlan = mcp.NewTool("generate_workout_plan",
	mcp.WithDescription("Generate a workout plan (warm-up, rounds, cool-down) for custom preferences."),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Training goal"), mcp.Enum(goalNames()...)),
	mcp.WithNumber("duration", mcp.Description("Workout length in minutes. Defaults to 20.")),
	mcp.WithString("skill_level", mcp.Description("Experience level. Defaults to intermediate."), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithString("equipment", mcp.Description("Comma-separated equipment list. Defaults to bodyweight.")),
	mcp.WithNumber("rounds", mcp.Description("Number of rounds. Defaults to 3.")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.Stats(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{
		"total_workouts": stats.TotalWorkouts,
		"current_streak": stats.CurrentStreak,
		"weekly_minutes": stats.WeeklyMinutes(),
		"weekly_summary": stats.WeeklySummary,
	})
}

func (h *handlers) listRecentRoutines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routines, err := h.ds.Routines(ctx)
	if err != nil {
		h.log.Error("mcp list_recent_routines", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(home.RecentRoutines(routines))
}

func (h *handlers) getNextChallenge(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	next, err := h.ds.NextChallenge(ctx)
	if err != nil {
		h.log.Error("mcp get_next_challenge", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if next == nil {
		return mcp.NewToolResultText("Every achievement tier is complete."), nil
	}
	return jsonResult(map[string]any{
		"achievement": next.Achievement.Name,
		"tier":        next.Tier.Name,
		"threshold":   next.Tier.Threshold,
		"current":     next.Current,
		"remaining":   next.Remaining(),
		"progress":    next.Progress(),
	})
}

func (h *handlers) suggestWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := h.ds.Home(ctx)
	if err != nil {
		h.log.Error("mcp suggest_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if resp.View.Suggestion == nil {
		return mcp.NewToolResultError("server returned no suggestion"), nil
	}
	return jsonResult(resp.View.Suggestion)
}

func (h *handlers) startSuggestedWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, err := h.ds.StartSuggested(ctx)
	switch {
	case errors.Is(err, home.ErrAlreadyGenerating):
		return mcp.NewToolResultError("a suggested workout is already being generated"), nil
	case errors.Is(err, client.ErrGenerationFailed):
		return mcp.NewToolResultError(home.GenerateFailedMessage), nil
	case err != nil:
		h.log.Error("mcp start_suggested_workout", "error", err)
		return mcp.NewToolResultError("start failed: " + err.Error()), nil
	}

	record, err := h.ds.SuggestedPlan(ctx)
	if err != nil {
		h.log.Error("mcp start_suggested_workout: read plan", "error", err)
		return mcp.NewToolResultError("reading generated plan failed: " + err.Error()), nil
	}
	return jsonResult(record)
}

func (h *handlers) generateWorkoutPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefs, err := preferencesFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := h.ds.GeneratePlan(ctx, prefs)
	if err != nil {
		h.log.Error("mcp generate_workout_plan", "goal", prefs.Goal, "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

// preferencesFromRequest fills the suggested-workout defaults with the tool arguments.
func preferencesFromRequest(req mcp.CallToolRequest) (models.Preferences, error) {
	goal, err := req.RequireString("goal")
	if err != nil {
		return models.Preferences{}, errors.New("goal parameter is required")
	}

	prefs := home.Suggest(nil).Preferences
	prefs.Goal = models.Goal(goal)
	prefs.Duration = req.GetInt("duration", 20)
	prefs.SkillLevel = models.SkillLevel(req.GetString("skill_level", string(models.SkillIntermediate)))
	prefs.Rounds = req.GetInt("rounds", 3)
	if eq := req.GetString("equipment", ""); eq != "" {
		prefs.Equipment = nil
		for _, item := range strings.Split(eq, ",") {
			if item = strings.TrimSpace(item); item != "" {
				prefs.Equipment = append(prefs.Equipment, item)
			}
		}
	}

	if err := prefs.Validate(); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
