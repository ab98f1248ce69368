package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cargoroute/cargoroute_core/internal/planner"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists computed plans to Postgres for later inspection
type Store struct {
	pool *pgxpool.Pool
}

// Record is one persisted plan row
type Record struct {
	ID            int64           `json:"id"`
	Source        string          `json:"source"`
	Destination   string          `json:"destination"`
	CargoWeightKg float64         `json:"cargo_weight_kg"`
	GoodsType     string          `json:"goods_type"`
	Priority      string          `json:"priority"`
	Plan          json.RawMessage `json:"plan"`
	CreatedAt     time.Time       `json:"created_at"`
}

// New connects to Postgres and ensures the plan table exists
func New(ctx context.Context, databaseURL string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MinConns = 2
	poolConfig.MaxConns = 10
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.bootstrap(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) bootstrap(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS route_plans (
			id              BIGSERIAL PRIMARY KEY,
			source          TEXT NOT NULL,
			destination     TEXT NOT NULL,
			cargo_weight_kg DOUBLE PRECISION NOT NULL,
			goods_type      TEXT NOT NULL,
			priority        TEXT NOT NULL,
			plan            JSONB NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("unable to create route_plans table: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Save persists a computed plan and returns its row id
func (s *Store) Save(ctx context.Context, plan *planner.Plan) (int64, error) {
	payload, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal plan: %w", err)
	}

	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO route_plans (source, destination, cargo_weight_kg, goods_type, priority, plan)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		plan.Source, plan.Destination, plan.CargoWeightKg,
		string(plan.GoodsType), string(plan.Priority), payload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert plan: %w", err)
	}

	return id, nil
}

// Recent returns the latest persisted plans, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, source, destination, cargo_weight_kg, goods_type, priority, plan, created_at
		FROM route_plans
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Source, &r.Destination, &r.CargoWeightKg,
			&r.GoodsType, &r.Priority, &r.Plan, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// HealthCheck pings the database
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
