package mcp

import (
	"context"
	"time"

	"github.com/claude/fitforge/internal/models"
	"github.com/claude/fitforge/internal/storage"
)

// DataSource abstracts the history store for MCP tools, so the server can
// run without a database (generation tools still work, history tools
// report an error).
type DataSource interface {
	QueryWorkouts(ctx context.Context, start, end time.Time, limit int) ([]models.WorkoutRow, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
