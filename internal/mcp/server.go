package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/claude/fitforge/internal/fit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, encoder *fit.Encoder, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitForge", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitForge workout file generator. Build Garmin-compatible FIT workout files from structured step lists, preview how step durations and intensities will be encoded, and browse previously generated workouts."),
	)

	h := &handlers{ds: ds, encoder: encoder, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGenerateWorkoutFile, Handler: h.generateWorkoutFile},
		server.ServerTool{Tool: toolPreviewWorkout, Handler: h.previewWorkout},
		server.ServerTool{Tool: toolListRecentWorkouts, Handler: h.listRecentWorkouts},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	encoder *fit.Encoder
	log     *slog.Logger
}

var resRecentWorkouts = mcp.NewResource(
	"fitforge://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workout files generated in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.ds == nil {
		return nil, errNoHistory
	}

	end := time.Now()
	rows, err := h.ds.QueryWorkouts(ctx, end.AddDate(0, 0, -14), end, 100)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
