package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"varcvar-api/internal/models"
)

// SQLiteRecorder persists submissions to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "sqlite_recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id             TEXT PRIMARY KEY,
			submitted_at   INTEGER NOT NULL,
			tau            INTEGER NOT NULL,
			delta          INTEGER NOT NULL,
			alpha          REAL NOT NULL,
			d              INTEGER NOT NULL,
			start_date     TEXT,
			end_date       TEXT,
			selected_funds TEXT NOT NULL,
			forwarded      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_ts ON submissions(submitted_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSubmission(ctx context.Context, sub *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := sub.Snapshot
	_, err := r.db.ExecContext(ctx, `INSERT INTO submissions
		(id, submitted_at, tau, delta, alpha, d, start_date, end_date, selected_funds, forwarded)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		sub.ID, sub.SubmittedAt.Unix(),
		snap.Tau, snap.Delta, snap.Alpha, snap.D,
		nullString(snap.StartDate), nullString(snap.EndDate),
		strings.Join(snap.SelectedFunds, ","), sub.Forwarded,
	)
	if err != nil {
		return fmt.Errorf("insert submission %s: %w", sub.ID, err)
	}
	return nil
}

// Recent returns up to limit submissions, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `SELECT
		id, submitted_at, tau, delta, alpha, d, start_date, end_date, selected_funds, forwarded
		FROM submissions ORDER BY submitted_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		var (
			sub        models.Submission
			ts         int64
			start, end sql.NullString
			funds      string
		)
		if err := rows.Scan(&sub.ID, &ts, &sub.Snapshot.Tau, &sub.Snapshot.Delta, &sub.Snapshot.Alpha,
			&sub.Snapshot.D, &start, &end, &funds, &sub.Forwarded); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.SubmittedAt = time.Unix(ts, 0).UTC()
		sub.Snapshot.StartDate = fromNullString(start)
		sub.Snapshot.EndDate = fromNullString(end)
		sub.Snapshot.SelectedFunds = []string{}
		if funds != "" {
			sub.Snapshot.SelectedFunds = strings.Split(funds, ",")
		}
		out = append(out, &sub)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
