package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/sansadwatch/billflow/domain/deadline"
)

// DeadlineStore is a SQLite-backed implementation of deadline.Store.
type DeadlineStore struct {
	db *sql.DB
}

// NewDeadlineStore creates a new SQLite deadline store with the given
// configuration.
func NewDeadlineStore(cfg Config, opts ...Option) (*DeadlineStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &DeadlineStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewDeadlineStoreFromDB creates a deadline store from an existing database
// connection.
func NewDeadlineStoreFromDB(db *sql.DB) (*DeadlineStore, error) {
	s := &DeadlineStore{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

// migrate creates the deadlines table if it doesn't exist.
func (s *DeadlineStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS deadlines (
			id TEXT PRIMARY KEY,
			bill_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_deadlines_bill_id ON deadlines(bill_id);
		CREATE INDEX IF NOT EXISTS idx_deadlines_expires_at ON deadlines(expires_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// Save persists a new deadline record.
func (s *DeadlineStore) Save(ctx context.Context, rec *deadline.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if rec.ID == "" {
		return deadline.ErrInvalidDeadlineID
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	completed := 0
	if rec.Completed {
		completed = 1
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO deadlines (id, bill_id, kind, expires_at, completed, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BillID, string(rec.Instance.Kind), rec.Instance.ExpiresAt.Unix(),
		completed, data, rec.CreatedAt.Unix(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return deadline.ErrDeadlineExists
		}
		return err
	}

	return nil
}

// Get retrieves a deadline record by ID.
func (s *DeadlineStore) Get(ctx context.Context, id string) (*deadline.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, deadline.ErrInvalidDeadlineID
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM deadlines WHERE id = ?",
		id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, deadline.ErrDeadlineNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec deadline.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListByBill returns all deadline records for a bill, oldest first.
func (s *DeadlineStore) ListByBill(ctx context.Context, billID string) ([]*deadline.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM deadlines WHERE bill_id = ? ORDER BY created_at",
		billID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// ListPending returns incomplete records expiring before the horizon,
// soonest first.
func (s *DeadlineStore) ListPending(ctx context.Context, horizon time.Time) ([]*deadline.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM deadlines WHERE completed = 0 AND expires_at <= ? ORDER BY expires_at",
		horizon.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// Complete marks a deadline record as completed.
func (s *DeadlineStore) Complete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return deadline.ErrInvalidDeadlineID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var data []byte
	err = tx.QueryRowContext(ctx, "SELECT data FROM deadlines WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return deadline.ErrDeadlineNotFound
	}
	if err != nil {
		return err
	}

	var rec deadline.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	rec.Completed = true

	updated, err := json.Marshal(&rec)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE deadlines SET completed = 1, data = ? WHERE id = ?",
		updated, id,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteByBill removes all deadline records for a bill.
func (s *DeadlineStore) DeleteByBill(ctx context.Context, billID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM deadlines WHERE bill_id = ?", billID)
	return err
}

// Close closes the database connection.
func (s *DeadlineStore) Close() error {
	return s.db.Close()
}

// scanRecords decodes deadline records from query rows.
func scanRecords(rows *sql.Rows) ([]*deadline.Record, error) {
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
	return records, rows.Err()
}

// Ensure DeadlineStore implements deadline.Store
var _ deadline.Store = (*DeadlineStore)(nil)
