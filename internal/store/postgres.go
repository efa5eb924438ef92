package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// The snapshot is one JSONB row keyed by SnapshotKey; events go to an
// append-only table.
//
// Schema:
//
//	CREATE TABLE cart_snapshot (
//	    key        TEXT PRIMARY KEY,
//	    data       JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE cart_events (
//	    id         TEXT PRIMARY KEY,
//	    type       TEXT NOT NULL,
//	    product_id BIGINT NOT NULL,
//	    quantity   BIGINT NOT NULL,
//	    timestamp  TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) LoadCart(ctx context.Context) ([]model.CartItem, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM cart_snapshot WHERE key = $1`, SnapshotKey,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, ErrNoCart
	}
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) SaveCart(ctx context.Context, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO cart_snapshot (key, data, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		SnapshotKey, data,
	)
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) ClearCart(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM cart_snapshot WHERE key = $1`, SnapshotKey,
	)
	if err != nil {
		return fmt.Errorf("clear cart snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendEvent(ctx context.Context, event *model.CartEvent) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cart_events (id, type, product_id, quantity, timestamp)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.Type, event.ProductID, event.Quantity, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append cart event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListEvents(ctx context.Context) ([]model.CartEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, type, product_id, quantity, timestamp
		 FROM cart_events ORDER BY timestamp, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart events: %w", err)
	}
	defer rows.Close()

	var events []model.CartEvent
	for rows.Next() {
		var e model.CartEvent
		if err := rows.Scan(&e.ID, &e.Type, &e.ProductID, &e.Quantity, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan cart event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
