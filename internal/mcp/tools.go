package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/fitforge/internal/fit"
	"github.com/claude/fitforge/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

var errNoHistory = errors.New("no history store configured")

// --- Tool definitions ---

var toolGenerateWorkoutFile = mcp.NewTool("generate_workout_file",
	mcp.WithDescription("Encode a workout as a Garmin-compatible FIT file. Returns file metadata and the file bytes as base64."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Workout name (truncated to 15 characters in the file)")),
	mcp.WithString("steps", mcp.Required(), mcp.Description(`Workout steps as a JSON array, e.g. [{"type":"warmup","time":"5min"},{"type":"run","time":"2:30"}]`)),
)

var toolPreviewWorkout = mcp.NewTool("preview_workout",
	mcp.WithDescription("Show how each step will be encoded (normalized seconds and intensity) without producing a file. Useful for checking duration strings and step-type labels."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Workout name")),
	mcp.WithString("steps", mcp.Required(), mcp.Description("Workout steps as a JSON array of {type, time} objects")),
)

var toolListRecentWorkouts = mcp.NewTool("list_recent_workouts",
	mcp.WithDescription("List previously generated workout files with step counts, durations, and file checksums."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) generateWorkoutFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := specFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	buf, err := h.encoder.Encode(spec)
	if err != nil {
		h.log.Error("mcp generate_workout_file", "error", err)
		return mcp.NewToolResultError("encoding failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"file_name":      spec.Name + fit.FileExtension,
		"size_bytes":     len(buf),
		"checksum":       fit.Checksum(buf[:len(buf)-2]),
		"content_base64": base64.StdEncoding.EncodeToString(buf),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := specFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type stepPreview struct {
		Index     int    `json:"index"`
		Name      string `json:"name"`
		Seconds   int    `json:"seconds"`
		Intensity string `json:"intensity"`
	}

	preview := make([]stepPreview, len(spec.Steps))
	total := 0
	for i, step := range spec.Steps {
		seconds := fit.ParseDuration(string(step.Time))
		total += seconds
		preview[i] = stepPreview{
			Index:     i,
			Name:      fmt.Sprintf("%s %d", step.Type, i+1),
			Seconds:   seconds,
			Intensity: fit.ClassifyIntensity(step.Type).String(),
		}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"name":          spec.Name,
		"steps":         preview,
		"total_seconds": total,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listRecentWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.ds == nil {
		return mcp.NewToolResultError(errNoHistory.Error()), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	rows, err := h.ds.QueryWorkouts(ctx, start, end, 100)
	if err != nil {
		h.log.Error("mcp list_recent_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// specFromArgs builds a WorkoutSpec from the name/steps tool arguments.
func specFromArgs(req mcp.CallToolRequest) (models.WorkoutSpec, error) {
	spec := models.WorkoutSpec{Name: req.GetString("name", "")}

	var steps []models.StepSpec
	if err := json.Unmarshal([]byte(req.GetString("steps", "")), &steps); err != nil {
		return spec, fmt.Errorf("steps must be a JSON array of {type, time} objects: %w", err)
	}
	spec.Steps = steps

	if err := spec.Validate(); err != nil {
		return spec, err
	}
	return spec, nil
}

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
