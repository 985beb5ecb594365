package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/fitforge/internal/fit"
	"github.com/mark3labs/mcp-go/mcp"
)

func testHandlers() *handlers {
	enc := fit.NewEncoder(fit.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	}))
	return &handlers{
		encoder: enc,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// TestGenerateWorkoutFileTool verifies the tool encodes a valid spec.
func TestGenerateWorkoutFileTool(t *testing.T) {
	h := testHandlers()
	req := toolRequest("generate_workout_file", map[string]any{
		"name":  "Test Workout",
		"steps": `[{"type":"warmup","time":"300"},{"type":"run","time":"600"}]`,
	})

	result, err := h.generateWorkoutFile(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error result: %+v", result.Content)
	}
}

// TestGenerateWorkoutFileToolBadSteps verifies malformed steps arguments
// are reported as tool errors, not transport errors.
func TestGenerateWorkoutFileToolBadSteps(t *testing.T) {
	h := testHandlers()
	req := toolRequest("generate_workout_file", map[string]any{
		"name":  "Broken",
		"steps": `not json`,
	})

	result, err := h.generateWorkoutFile(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for malformed steps")
	}
}

// TestPreviewWorkoutTool verifies previews normalize durations and
// intensities without producing a file.
func TestPreviewWorkoutTool(t *testing.T) {
	h := testHandlers()
	req := toolRequest("preview_workout", map[string]any{
		"name":  "Preview",
		"steps": `[{"type":"Pausa","time":"2min"}]`,
	})

	result, err := h.previewWorkout(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error result: %+v", result.Content)
	}
}

// TestListRecentWorkoutsNoStore verifies the history tool degrades with a
// clear error when no database is configured.
func TestListRecentWorkoutsNoStore(t *testing.T) {
	h := testHandlers()
	req := toolRequest("list_recent_workouts", map[string]any{})

	result, err := h.listRecentWorkouts(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result without a history store")
	}
}

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 167 || diff.Hours() > 169 { // ~168 hours = 7 days
		t.Errorf("default range = %.0f hours, want ~168", diff.Hours())
	}

	start, end, err = defaultTimeRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if end.Day() != 31 {
		t.Errorf("end = %v, want day 31", end)
	}

	if _, _, err = defaultTimeRange("not-a-date", ""); err == nil {
		t.Error("expected error for invalid date")
	}
}
