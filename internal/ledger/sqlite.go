package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"autoapply-engine/internal/domain"
)

// SQLiteStore is the default ledger backend. Each Append is a single
// INSERT inside its own implicit transaction, so the append is durable
// before control returns to the engine.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // sqlite wants a single writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS applied_jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  applied_successfully INTEGER NOT NULL,
  applied_at TEXT NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]domain.AppliedJob, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT title, company, applied_successfully
FROM applied_jobs
ORDER BY id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("ledger load: %w", err)
	}
	defer rows.Close()

	var out []domain.AppliedJob
	for rows.Next() {
		var rec domain.AppliedJob
		var ok int
		if err := rows.Scan(&rec.Title, &rec.Company, &ok); err != nil {
			return nil, fmt.Errorf("ledger scan: %w", err)
		}
		rec.AppliedSuccessfully = ok != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, rec domain.AppliedJob) error {
	applied := 0
	if rec.AppliedSuccessfully {
		applied = 1
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO applied_jobs (title, company, applied_successfully, applied_at)
VALUES (?, ?, ?, ?);`,
		rec.Title, rec.Company, applied, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
