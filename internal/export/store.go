package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

// Store keeps per-run sequencing results in SQLite.
type Store struct {
	*sql.DB
}

// ImageRecord is one stored image result.
type ImageRecord struct {
	Image  string
	Usable bool
	Reason string
	Line   *landmark.ReferenceLine
	Rows   []landmark.Row
}

// Open opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			input_dir         TEXT,
			started_at        TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS images (
			run_id            TEXT,
			image             TEXT,
			usable            BOOLEAN,
			reason            TEXT,
			line_x1           DOUBLE,
			line_y1           DOUBLE,
			line_x2           DOUBLE,
			line_y2           DOUBLE,
			PRIMARY KEY (run_id, image),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS ordinals (
			run_id            TEXT,
			image             TEXT,
			ordinal           INTEGER,
			origin_x          DOUBLE,
			origin_y          DOUBLE,
			PRIMARY KEY (run_id, image, ordinal)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db}, nil
}

// BeginRun registers a run before any results are recorded for it.
func (s *Store) BeginRun(ctx context.Context, runID, inputDir string) error {
	_, err := s.ExecContext(ctx,
		"INSERT INTO runs (run_id, input_dir, started_at) VALUES (?, ?, ?)",
		runID, inputDir, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to begin run %s: %w", runID, err)
	}
	return nil
}

// RecordResult stores one image result and its ordinal rows. Recording the
// same image twice within a run replaces the earlier entry.
func (s *Store) RecordResult(ctx context.Context, runID string, res landmark.Result) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var x1, y1, x2, y2 sql.NullFloat64
	if res.Line != nil {
		x1 = sql.NullFloat64{Float64: res.Line.Start.X, Valid: true}
		y1 = sql.NullFloat64{Float64: res.Line.Start.Y, Valid: true}
		x2 = sql.NullFloat64{Float64: res.Line.End.X, Valid: true}
		y2 = sql.NullFloat64{Float64: res.Line.End.Y, Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM ordinals WHERE run_id = ? AND image = ?", runID, res.Image); err != nil {
		return fmt.Errorf("failed to clear ordinals: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO images (run_id, image, usable, reason, line_x1, line_y1, line_x2, line_y2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Image, res.Usable, res.Reason, x1, y1, x2, y2); err != nil {
		return fmt.Errorf("failed to record image %s: %w", res.Image, err)
	}
	for _, r := range res.Table.Rows {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO ordinals (run_id, image, ordinal, origin_x, origin_y) VALUES (?, ?, ?, ?, ?)",
			runID, res.Image, r.Ordinal, r.OriginX, r.OriginY); err != nil {
			return fmt.Errorf("failed to record ordinal %d: %w", r.Ordinal, err)
		}
	}

	return tx.Commit()
}

// Results returns the stored images of a run ordered by image name, each with
// its rows in ordinal order.
func (s *Store) Results(ctx context.Context, runID string) ([]ImageRecord, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT image, usable, reason, line_x1, line_y1, line_x2, line_y2
		FROM images WHERE run_id = ? ORDER BY image`, runID)
	if err != nil {
		return nil, err
	}

	var records []ImageRecord
	for rows.Next() {
		var rec ImageRecord
		var reason sql.NullString
		var x1, y1, x2, y2 sql.NullFloat64
		if err := rows.Scan(&rec.Image, &rec.Usable, &reason, &x1, &y1, &x2, &y2); err != nil {
			rows.Close()
			return nil, err
		}
		rec.Reason = reason.String
		if x1.Valid && y1.Valid && x2.Valid && y2.Valid {
			rec.Line = &landmark.ReferenceLine{
				Start: landmark.Point{X: x1.Float64, Y: y1.Float64},
				End:   landmark.Point{X: x2.Float64, Y: y2.Float64},
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range records {
		ordinals, err := s.ordinals(ctx, runID, records[i].Image)
		if err != nil {
			return nil, err
		}
		records[i].Rows = ordinals
	}
	return records, nil
}

func (s *Store) ordinals(ctx context.Context, runID, image string) ([]landmark.Row, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT ordinal, origin_x, origin_y FROM ordinals
		WHERE run_id = ? AND image = ? ORDER BY ordinal`, runID, image)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []landmark.Row{}
	for rows.Next() {
		var r landmark.Row
		if err := rows.Scan(&r.Ordinal, &r.OriginX, &r.OriginY); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunCount returns how many runs have been registered.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var n int
	err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n)
	return n, err
}
