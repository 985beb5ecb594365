package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/fitforge/internal/fit"
	"github.com/claude/fitforge/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "FIT generation API running",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   s.version,
	})
}

func (s *Server) handleGenerateFIT(w http.ResponseWriter, r *http.Request) {
	var spec models.WorkoutSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := spec.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("generating workout file", "name", spec.Name, "steps", len(spec.Steps))

	buf, err := s.encoder.Encode(spec)
	if err != nil {
		s.log.Error("encode error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// History is best effort: a storage failure must not cost the caller
	// their file.
	s.recordWorkout(r.Context(), spec, buf)

	writeAttachment(w, spec.Name+fit.FileExtension, buf)
}

func (s *Server) recordWorkout(ctx context.Context, spec models.WorkoutSpec, buf []byte) {
	if s.db == nil {
		return
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		s.log.Warn("recording workout failed", "error", err)
		return
	}

	total := 0
	for _, step := range spec.Steps {
		total += fit.ParseDuration(string(step.Time))
	}

	row := models.WorkoutRow{
		ID:          uuid.New(),
		Name:        spec.Name,
		StepCount:   len(spec.Steps),
		DurationSec: total,
		FileSize:    len(buf),
		FileCRC:     binary.LittleEndian.Uint16(buf[len(buf)-2:]),
		SpecJSON:    specJSON,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.InsertWorkout(ctx, row); err != nil {
		s.log.Warn("recording workout failed", "error", err)
	}
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := s.db.QueryWorkouts(r.Context(), start, end, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	row, ok := s.fetchWorkout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// handleWorkoutFile regenerates a previously generated file from its
// stored spec. The stored creation time drives the encoder clock, so
// repeated downloads return identical bytes.
func (s *Server) handleWorkoutFile(w http.ResponseWriter, r *http.Request) {
	row, ok := s.fetchWorkout(w, r)
	if !ok {
		return
	}

	var spec models.WorkoutSpec
	if err := json.Unmarshal(row.SpecJSON, &spec); err != nil {
		s.log.Error("stored spec unreadable", "id", row.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stored spec unreadable"})
		return
	}

	created := row.CreatedAt
	enc := fit.NewEncoder(fit.WithClock(func() time.Time { return created }))
	buf, err := enc.Encode(spec)
	if err != nil {
		s.log.Error("encode error", "id", row.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeAttachment(w, row.Name+fit.FileExtension, buf)
}

func (s *Server) fetchWorkout(w http.ResponseWriter, r *http.Request) (*models.WorkoutRow, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return nil, false
	}

	row, err := s.db.GetWorkout(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return nil, false
	}
	return row, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, filename string, buf []byte) {
	// FormatMediaType quotes and escapes the filename; workout names come
	// straight from user input and may contain quotes.
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

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
		// Default: the 7 days leading up to end
		start = end.AddDate(0, 0, -7)
	}
	return
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
