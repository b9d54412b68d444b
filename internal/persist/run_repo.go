package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one finished session. It records the outcome only; no game state
// is kept.
type Run struct {
	ID        uuid.UUID
	Level     string
	Turns     int
	Score     int
	Clones    int
	Outcome   string
	StartedAt time.Time
	EndedAt   time.Time
}

// RunRepo reads and writes the runs table.
type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// SaveRun inserts r. Saving the same id twice is an error.
func (r *RunRepo) SaveRun(ctx context.Context, run Run) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO runs (id, level, turns, score, clones, outcome, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.Level, run.Turns, run.Score, run.Clones, run.Outcome, run.StartedAt, run.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Best returns the highest-scoring runs for level, newest first on ties.
func (r *RunRepo) Best(ctx context.Context, level string, limit int) ([]Run, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, level, turns, score, clones, outcome, started_at, ended_at
		 FROM runs WHERE level = $1
		 ORDER BY score DESC, ended_at DESC
		 LIMIT $2`, level, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Level, &run.Turns, &run.Score, &run.Clones,
			&run.Outcome, &run.StartedAt, &run.EndedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
