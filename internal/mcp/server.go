package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitHome", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitHome workout server. Read workout statistics, saved routines and the next achievement milestone, and generate AI workout plans. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutStats, Handler: h.getWorkoutStats},
		server.ServerTool{Tool: toolListRecentRoutines, Handler: h.listRecentRoutines},
		server.ServerTool{Tool: toolGetNextChallenge, Handler: h.getNextChallenge},
		server.ServerTool{Tool: toolSuggestWorkout, Handler: h.suggestWorkout},
		server.ServerTool{Tool: toolStartSuggestedWorkout, Handler: h.startSuggestedWorkout},
		server.ServerTool{Tool: toolGenerateWorkoutPlan, Handler: h.generateWorkoutPlan},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resHome, Handler: h.homeView},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resHome = mcp.NewResource(
	"fithome://home",
	"Home Screen",
	mcp.WithResourceDescription("Greeting, suggested workout, statistics, next challenge and the three most recent routines"),
	mcp.WithMIMEType("application/json"),
)
