package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	createRunsTableSQL = `CREATE TABLE IF NOT EXISTS signal_runs (
        id            BIGSERIAL PRIMARY KEY,
        run_ts        TIMESTAMPTZ NOT NULL,
        crypto_index  INT,
        us_index      INT,
        tw_rsi        INT,
        triggered     BOOLEAN NOT NULL,
        trigger_count INT NOT NULL DEFAULT 0,
        delivered     BOOLEAN NOT NULL DEFAULT FALSE,
        message       TEXT NOT NULL DEFAULT '',
        advice        TEXT NOT NULL DEFAULT '',
        created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	createRunsIndexSQL = `CREATE INDEX IF NOT EXISTS idx_signal_runs_ts ON signal_runs (run_ts);`

	insertRunSQL = `INSERT INTO signal_runs (
        run_ts, crypto_index, us_index, tw_rsi,
        triggered, trigger_count, delivered, message, advice
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9
    ) RETURNING id, created_at;`

	listRecentRunsSQL = `SELECT
        id, run_ts, crypto_index, us_index, tw_rsi,
        triggered, trigger_count, delivered, message, advice, created_at
    FROM signal_runs
    ORDER BY run_ts DESC
    LIMIT $1;`

	listRunsBetweenSQL = `SELECT
        id, run_ts, crypto_index, us_index, tw_rsi,
        triggered, trigger_count, delivered, message, advice, created_at
    FROM signal_runs
    WHERE run_ts >= $1
      AND run_ts < $2
    ORDER BY run_ts;`

	countRunsSQL = `SELECT COUNT(*) FROM signal_runs;`
)

// RunStore defines operations for run snapshot persistence.
type RunStore interface {
	InsertRun(ctx context.Context, rec RunRecord) (RunRecord, error)
	ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	ListRunsBetween(ctx context.Context, from, to time.Time) ([]RunRecord, error)
	CountRuns(ctx context.Context) (int64, error)
}

// Store persists run snapshots in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Bootstrap creates the schema when it does not exist yet.
func (s *Store) Bootstrap(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	for _, stmt := range []string{createRunsTableSQL, createRunsIndexSQL} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertRun persists one evaluation snapshot.
func (s *Store) InsertRun(ctx context.Context, rec RunRecord) (RunRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return RunRecord{}, err
	}

	row := pool.QueryRow(ctx, insertRunSQL,
		rec.RunTS,
		rec.CryptoIndex,
		rec.USIndex,
		rec.TWRSI,
		rec.Triggered,
		rec.TriggerCount,
		rec.Delivered,
		rec.Message,
		rec.Advice,
	)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

// ListRecentRuns lists the most recent runs ordered by descending run time.
func (s *Store) ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentRunsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent runs: %w", queryErr)
	}
	defer rows.Close()

	return scanRuns(rows, limit)
}

// ListRunsBetween lists runs within a time window, ascending.
func (s *Store) ListRunsBetween(ctx context.Context, from, to time.Time) ([]RunRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRunsBetweenSQL, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("list runs between: %w", queryErr)
	}
	defer rows.Close()

	return scanRuns(rows, 0)
}

// CountRuns counts stored runs.
func (s *Store) CountRuns(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countRunsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count runs: %w", scanErr)
	}
	return count, nil
}

func scanRuns(rows pgx.Rows, hint int) ([]RunRecord, error) {
	if hint < 0 {
		hint = 0
	}
	records := make([]RunRecord, 0, hint)
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RunTS,
			&rec.CryptoIndex,
			&rec.USIndex,
			&rec.TWRSI,
			&rec.Triggered,
			&rec.TriggerCount,
			&rec.Delivered,
			&rec.Message,
			&rec.Advice,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

var _ RunStore = (*Store)(nil)
