package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fitforge/internal/models"
	"github.com/google/uuid"
)

// InsertWorkout records one generated workout file in the history table.
func (db *DB) InsertWorkout(ctx context.Context, row models.WorkoutRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, name, step_count, duration_sec, file_size, file_crc, spec_json, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		row.ID, row.Name, row.StepCount, row.DurationSec,
		row.FileSize, int(row.FileCRC), string(row.SpecJSON), row.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// QueryWorkouts returns history entries created within [start, end),
// newest first, capped at limit.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, limit int) ([]models.WorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, step_count, duration_sec, file_size, file_crc, created_at
		 FROM workouts
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutRow
	for rows.Next() {
		var r models.WorkoutRow
		var crc int
		if err := rows.Scan(&r.ID, &r.Name, &r.StepCount, &r.DurationSec,
			&r.FileSize, &crc, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		r.FileCRC = uint16(crc)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetWorkout returns one history entry by id, including the stored spec
// JSON so the file can be regenerated.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRow, error) {
	var r models.WorkoutRow
	var crc int
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, step_count, duration_sec, file_size, file_crc, spec_json, created_at
		 FROM workouts WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.StepCount, &r.DurationSec,
			&r.FileSize, &crc, &r.SpecJSON, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching workout %s: %w", id, err)
	}
	r.FileCRC = uint16(crc)
	return &r, nil
}
