package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/fitforge/internal/fit"
)

func newTestServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	enc := fit.NewEncoder(fit.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	}))
	return New(nil, enc, "testkey", "test", log)
}

// TestHandleHealth verifies the health endpoint shape.
func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
	if body["version"] != "test" {
		t.Errorf("version field = %q, want %q", body["version"], "test")
	}
}

// TestHandleGenerateFIT verifies a valid request returns a complete FIT
// file as a binary attachment.
func TestHandleGenerateFIT(t *testing.T) {
	s := newTestServer()
	payload := `{"name":"Test Workout","steps":[{"type":"warmup","time":"300"},{"type":"run","time":"600"},{"type":"cooldown","time":"300"}]}`

	req := httptest.NewRequest(http.MethodPost, "/generate-fit", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/octet-stream" {
		t.Errorf("Content-Type = %q, want application/octet-stream", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "Test Workout.fit") {
		t.Errorf("Content-Disposition = %q, want filename Test Workout.fit", got)
	}

	buf := rec.Body.Bytes()
	if len(buf) != 236 { // 14 header + 35 file_id + 35 workout + 3*50 steps + 2 crc
		t.Errorf("body length = %d, want 236", len(buf))
	}
	if !bytes.Equal(buf[8:12], []byte(".FIT")) {
		t.Errorf("signature = %q, want .FIT", buf[8:12])
	}
}

// TestHandleGenerateFITLegacyShape verifies the routine_name request shape
// from the original WordPress integration still works.
func TestHandleGenerateFITLegacyShape(t *testing.T) {
	s := newTestServer()
	payload := `{"routine_name":"Rutina","steps":[{"type":"Pasada","time":"2min"}]}`

	req := httptest.NewRequest(http.MethodPost, "/generate-fit", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "Rutina.fit") {
		t.Errorf("Content-Disposition = %q, want filename Rutina.fit", got)
	}
}

// TestHandleGenerateFITBadRequests verifies input-shape errors are rejected
// before encoding.
func TestHandleGenerateFITBadRequests(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"invalid JSON", `{not json`},
		{"missing name", `{"steps":[{"type":"run","time":"60"}]}`},
		{"missing steps", `{"name":"W"}`},
	}

	s := newTestServer()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/generate-fit", strings.NewReader(tc.payload))
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

// TestParseTimeRange verifies end is honored even when start is absent,
// and that the default window hangs off the supplied end.
func TestParseTimeRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts?end=2024-01-31", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.Year() != 2024 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2024-01-31", end)
	}
	if start.Day() != 24 {
		t.Errorf("start = %v, want 7 days before end (2024-01-24)", start)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/workouts?start=2024-01-01", nil)
	start, end, err = parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if time.Since(end) > time.Minute {
		t.Errorf("end = %v, want ~now", end)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/workouts?end=not-a-date", nil)
	if _, _, err = parseTimeRange(req); err == nil {
		t.Error("expected error for invalid end date")
	}
}

// TestWriteAttachmentFilenameQuoting verifies filenames containing quotes
// survive the Content-Disposition header intact.
func TestWriteAttachmentFilenameQuoting(t *testing.T) {
	rec := httptest.NewRecorder()
	name := `My "Fast" Run.fit`
	writeAttachment(rec, name, []byte{0x01})

	mediaType, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("Content-Disposition unparsable: %v", err)
	}
	if mediaType != "attachment" {
		t.Errorf("media type = %q, want attachment", mediaType)
	}
	if params["filename"] != name {
		t.Errorf("filename = %q, want %q", params["filename"], name)
	}
}

// TestHistoryRequiresAPIKey verifies the history API sits behind the key
// middleware.
func TestHistoryRequiresAPIKey(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
