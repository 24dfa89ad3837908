package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perpStats/internal/model"
	"perpStats/internal/storage"
)

// Schema creates the chart_points table. Each row is one value of one point.
const Schema = `
CREATE TABLE IF NOT EXISTS chart_points (
	chain      TEXT             NOT NULL,
	dataset    TEXT             NOT NULL,
	ts         BIGINT           NOT NULL,
	key        TEXT             NOT NULL,
	value      DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
	PRIMARY KEY (chain, dataset, ts, key)
)`

// Store provides Postgres persistence for chart series.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// PutSeries inserts or updates every value of every point.
func (s *Store) PutSeries(ctx context.Context, key storage.SeriesKey, points model.Series) error {
	batch := &pgx.Batch{}
	for _, p := range points {
		names := make([]string, 0, len(p.Values))
		for name := range p.Values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			batch.Queue(`
				INSERT INTO chart_points (chain, dataset, ts, key, value, updated_at)
				VALUES ($1, $2, $3, $4, $5, now())
				ON CONFLICT (chain, dataset, ts, key)
				DO UPDATE SET value = EXCLUDED.value, updated_at = now()
			`, key.Chain, key.Dataset, p.Timestamp, name, p.Values[name])
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert chart point: %w", err)
		}
	}
	return nil
}

// LoadSeries reads the stored points of key with from <= ts <= to.
func (s *Store) LoadSeries(ctx context.Context, key storage.SeriesKey, from, to int64) (model.Series, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ts, key, value FROM chart_points
		WHERE chain = $1 AND dataset = $2 AND ts >= $3 AND ts <= $4
		ORDER BY ts
	`, key.Chain, key.Dataset, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out model.Series
	for rows.Next() {
		var (
			ts    int64
			name  string
			value float64
		)
		if err := rows.Scan(&ts, &name, &value); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].Timestamp != ts {
			out = append(out, model.NewTimePoint(ts))
		}
		out[len(out)-1].Set(name, value)
	}
	return out, rows.Err()
}

// LastTimestamp returns the newest stored timestamp of key.
func (s *Store) LastTimestamp(ctx context.Context, key storage.SeriesKey) (int64, bool, error) {
	var ts int64
	row := s.pool.QueryRow(ctx, `
		SELECT ts FROM chart_points WHERE chain = $1 AND dataset = $2
		ORDER BY ts DESC LIMIT 1
	`, key.Chain, key.Dataset)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}
