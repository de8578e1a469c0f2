package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"novatail/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS console_lines (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  instance_id TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  line TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_console_lines_ts ON console_lines(ts_ms);
CREATE INDEX IF NOT EXISTS idx_console_lines_instance ON console_lines(instance_id);

CREATE TABLE IF NOT EXISTS console_gaps (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  instance_id TEXT NOT NULL,
  ts_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_console_gaps_instance ON console_gaps(instance_id);
`)
	return err
}

// InsertLines stores one poll batch transactionally; seq preserves the
// in-batch ordering since all lines share a timestamp.
func (r *Repo) InsertLines(ctx context.Context, tsMillis int64, instanceID string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO console_lines(instance_id, ts_ms, seq, line) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, line := range lines {
		if _, err := stmt.ExecContext(ctx, instanceID, tsMillis, i, line); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) InsertGap(ctx context.Context, tsMillis int64, instanceID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO console_gaps(instance_id, ts_ms) VALUES(?, ?)`, instanceID, tsMillis)
	return err
}

// RecentLines returns the latest n archived lines for an instance, oldest
// first.
func (r *Repo) RecentLines(ctx context.Context, instanceID string, n int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT line FROM (
  SELECT id, line FROM console_lines WHERE instance_id = ? ORDER BY id DESC LIMIT ?
) ORDER BY id ASC`, instanceID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

var _ port.Archive = (*Repo)(nil)
