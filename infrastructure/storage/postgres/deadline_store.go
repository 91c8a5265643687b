package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sansadwatch/billflow/domain/deadline"
)

// DeadlineStore is a PostgreSQL-backed implementation of deadline.Store.
type DeadlineStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewDeadlineStore creates a new PostgreSQL deadline store.
func NewDeadlineStore(pool *pgxpool.Pool, schema string) *DeadlineStore {
	if schema == "" {
		schema = "public"
	}
	return &DeadlineStore{
		pool:   pool,
		schema: schema,
	}
}

// tableName returns the fully qualified table name.
func (s *DeadlineStore) tableName() string {
	return fmt.Sprintf("%s.deadlines", s.schema)
}

// Save persists a new deadline record.
func (s *DeadlineStore) Save(ctx context.Context, rec *deadline.Record) error {
	if rec.ID == "" {
		return deadline.ErrInvalidDeadlineID
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal deadline: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, bill_id, kind, expires_at, completed, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.tableName())

	_, err = s.pool.Exec(ctx, query,
		rec.ID,
		rec.BillID,
		string(rec.Instance.Kind),
		rec.Instance.ExpiresAt,
		rec.Completed,
		data,
		rec.CreatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return deadline.ErrDeadlineExists
		}
		return s.wrapError(err)
	}

	return nil
}

// Get retrieves a deadline record by ID.
func (s *DeadlineStore) Get(ctx context.Context, id string) (*deadline.Record, error) {
	if id == "" {
		return nil, deadline.ErrInvalidDeadlineID
	}

	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.tableName())

	var data []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deadline.ErrDeadlineNotFound
		}
		return nil, s.wrapError(err)
	}

	var rec deadline.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal deadline: %w", err)
	}

	return &rec, nil
}

// ListByBill returns all deadline records for a bill, oldest first.
func (s *DeadlineStore) ListByBill(ctx context.Context, billID string) ([]*deadline.Record, error) {
	query := fmt.Sprintf(`
		SELECT data FROM %s WHERE bill_id = $1 ORDER BY created_at
	`, s.tableName())

	rows, err := s.pool.Query(ctx, query, billID)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	return s.scanRecords(rows)
}

// ListPending returns incomplete records expiring before the horizon,
// soonest first.
func (s *DeadlineStore) ListPending(ctx context.Context, horizon time.Time) ([]*deadline.Record, error) {
	query := fmt.Sprintf(`
		SELECT data FROM %s WHERE completed = FALSE AND expires_at <= $1 ORDER BY expires_at
	`, s.tableName())

	rows, err := s.pool.Query(ctx, query, horizon)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	return s.scanRecords(rows)
}

// Complete marks a deadline record as completed.
func (s *DeadlineStore) Complete(ctx context.Context, id string) error {
	if id == "" {
		return deadline.ErrInvalidDeadlineID
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET completed = TRUE,
			data = jsonb_set(data, '{completed}', 'true')
		WHERE id = $1
	`, s.tableName())

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return s.wrapError(err)
	}

	if result.RowsAffected() == 0 {
		return deadline.ErrDeadlineNotFound
	}

	return nil
}

// DeleteByBill removes all deadline records for a bill.
func (s *DeadlineStore) DeleteByBill(ctx context.Context, billID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE bill_id = $1`, s.tableName())

	_, err := s.pool.Exec(ctx, query, billID)
	return s.wrapError(err)
}

// scanRecords decodes deadline records from query rows.
func (s *DeadlineStore) scanRecords(rows pgx.Rows) ([]*deadline.Record, error) {
	var records []*deadline.Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var rec deadline.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue // Skip malformed entries
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrapError(err)
	}

	return records, nil
}

// wrapError wraps database errors with domain errors.
func (s *DeadlineStore) wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	return errors.Join(ErrConnectionFailed, err)
}

// Ensure DeadlineStore implements deadline.Store
var _ deadline.Store = (*DeadlineStore)(nil)
