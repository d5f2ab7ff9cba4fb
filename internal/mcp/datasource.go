package mcp

import (
	"context"

	"github.com/claude/fithome/internal/client"
	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/models"
)

// DataSource abstracts the FitHome API for MCP tools. The identity of the
// caller is resolved by the server, so no user ID is passed.
type DataSource interface {
	Home(ctx context.Context) (*client.HomeResponse, error)
	StartSuggested(ctx context.Context) (*client.StartResult, error)
	SuggestedPlan(ctx context.Context) (*home.GeneratedRecord, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Routines(ctx context.Context) ([]models.Routine, error)
	NextChallenge(ctx context.Context) (*models.NextChallenge, error)
	GeneratePlan(ctx context.Context, prefs models.Preferences) (*models.Plan, error)
}

// Compile-time check: *client.Client satisfies DataSource.
var _ DataSource = (*client.Client)(nil)
