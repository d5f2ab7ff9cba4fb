package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fithome/internal/client"
	"github.com/claude/fithome/internal/mcp"
	"github.com/claude/fithome/internal/tui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Context is shared by every command.
type Context struct {
	Client *client.Client
	Log    *slog.Logger
}

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	p := tea.NewProgram(tui.NewModel(ctx.Client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

type McpCmd struct{}

func (c *McpCmd) Run(ctx *Context) error {
	ctx.Log.Info("mcp server starting on stdio", "version", Version)
	return server.ServeStdio(mcp.New(ctx.Client, Version, ctx.Log))
}

var CLI struct {
	Version kong.VersionFlag
	Server  string `help:"FitHome server URL." default:"http://localhost:8080" env:"FITHOME_URL"`

	Tui TuiCmd `cmd:"" help:"Launch the interactive home screen." default:"1"`
	Mcp McpCmd `cmd:"" help:"Serve the FitHome MCP tools on stdio."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("fithome"),
		kong.Description("Terminal home screen and MCP bridge for FitHome"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	// stdout belongs to the TUI or the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	appCtx := &Context{
		Client: client.New(CLI.Server),
		Log:    log,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
