package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"novatail/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

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
  id BIGSERIAL PRIMARY KEY,
  instance_id TEXT NOT NULL,
  ts_ms BIGINT NOT NULL,
  seq INT NOT NULL,
  line TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_console_lines_instance ON console_lines(instance_id, ts_ms);

CREATE TABLE IF NOT EXISTS console_gaps (
  id BIGSERIAL PRIMARY KEY,
  instance_id TEXT NOT NULL,
  ts_ms BIGINT NOT NULL
);
`)
	return err
}

func (r *Repo) InsertLines(ctx context.Context, tsMillis int64, instanceID string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, line := range lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO console_lines(instance_id, ts_ms, seq, line) VALUES($1, $2, $3, $4)`,
			instanceID, tsMillis, i, line); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) InsertGap(ctx context.Context, tsMillis int64, instanceID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO console_gaps(instance_id, ts_ms) VALUES($1, $2)`, instanceID, tsMillis)
	return err
}

var _ port.Archive = (*Repo)(nil)
