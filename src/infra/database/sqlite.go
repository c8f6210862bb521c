package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contre95/tagmend/src/music"
	_ "github.com/mattn/go-sqlite3"
)

// RunStore is a SQLite implementation of the run history.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &RunStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			files INTEGER NOT NULL,
			repaired INTEGER NOT NULL,
			unrecoverable INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			errors INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tag_fixes (
			run_id TEXT NOT NULL,
			path TEXT NOT NULL,
			field TEXT NOT NULL,
			original TEXT,
			fixed TEXT,
			outcome TEXT NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_tag_fixes_run ON tag_fixes(run_id);
	`)
	return err
}

// SaveRun persists a finished run and its per-tag rows in one transaction.
// Files without a readable container contribute to the run's skipped
// count but have no tag rows.
func (s *RunStore) SaveRun(ctx context.Context, run *music.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stats := run.Stats()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, started_at, finished_at, files, repaired, unrecoverable, skipped, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root,
		run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339),
		stats.Files, stats.Repaired, stats.Unrecoverable, stats.Skipped, stats.Errors,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, rec := range run.Records {
		if rec.Original == nil {
			continue
		}
		for _, field := range music.Fields {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tag_fixes (run_id, path, field, original, fixed, outcome)
				VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, rec.Path, string(field),
				nullable(rec.Original[field]), nullable(rec.Fixed[field]),
				string(rec.Outcomes[field]),
			)
			if err != nil {
				return fmt.Errorf("failed to insert tag fix: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetRun loads a run by ID. Records come back grouped by path in
// insertion order; the original enumeration order is preserved.
func (s *RunStore) GetRun(ctx context.Context, id string) (*music.Run, error) {
	run := &music.Run{ID: id}

	var started, finished string
	err := s.db.QueryRowContext(ctx,
		`SELECT root, started_at, finished_at FROM runs WHERE id = ?`, id,
	).Scan(&run.Root, &started, &finished)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, started)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finished)

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, field, original, fixed, outcome FROM tag_fixes WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag fixes for run %s: %w", id, err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var path, field, outcome string
		var original, fixed sql.NullString
		if err := rows.Scan(&path, &field, &original, &fixed, &outcome); err != nil {
			return nil, err
		}

		i, ok := index[path]
		if !ok {
			run.Records = append(run.Records, music.FileRecord{
				Path:     path,
				Original: make(map[music.Field]*string),
				Fixed:    make(map[music.Field]*string),
				Outcomes: make(map[music.Field]music.Outcome),
			})
			i = len(run.Records) - 1
			index[path] = i
		}

		f := music.Field(field)
		run.Records[i].Original[f] = fromNullable(original)
		run.Records[i].Fixed[f] = fromNullable(fixed)
		run.Records[i].Outcomes[f] = music.Outcome(outcome)
	}
	return run, rows.Err()
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
