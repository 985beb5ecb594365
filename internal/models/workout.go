package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkoutSpec is the caller-supplied description of a workout to encode.
// The encoder treats it as read-only.
type WorkoutSpec struct {
	Name  string     `json:"name"`
	Steps []StepSpec `json:"steps"`

	// LegacyName mirrors the field name used by the original WordPress
	// integration. UnmarshalJSON folds it into Name.
	LegacyName string `json:"routine_name,omitempty"`
}

// StepSpec is one workout step: a free-text type label and a duration.
type StepSpec struct {
	Type string   `json:"type"`
	Time Duration `json:"time"`
}

// Duration carries a step duration exactly as entered. JSON strings and
// numbers are both accepted; any other JSON value is kept empty so the
// encoder falls back to its default rather than rejecting the workout.
type Duration string

func (d *Duration) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*d = Duration(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		*d = Duration(n.String())
		return nil
	}
	*d = ""
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts both the current shape ({name, steps}) and the
// legacy one ({routine_name, steps}).
func (w *WorkoutSpec) UnmarshalJSON(raw []byte) error {
	type plain WorkoutSpec
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if p.Name == "" {
		p.Name = p.LegacyName
	}
	p.LegacyName = ""
	*w = WorkoutSpec(p)
	return nil
}

// Validate reports the input-shape errors the request layer must reject
// before encoding: both the name and the steps list are required.
func (w *WorkoutSpec) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	if w.Steps == nil {
		return fmt.Errorf("steps is required")
	}
	return nil
}

// WorkoutRow is one generated-file history entry as stored in Postgres.
type WorkoutRow struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	StepCount   int       `json:"step_count"`
	DurationSec int       `json:"duration_sec"`
	FileSize    int       `json:"file_size"`
	FileCRC     uint16    `json:"file_crc"`
	SpecJSON    []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
