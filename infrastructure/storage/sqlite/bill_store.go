package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/sansadwatch/billflow/domain/bill"
)

// BillStore is a SQLite-backed implementation of bill.Store.
type BillStore struct {
	db *sql.DB
}

// NewBillStore creates a new SQLite bill store with the given configuration.
func NewBillStore(cfg Config, opts ...Option) (*BillStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &BillStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewBillStoreFromDB creates a bill store from an existing database connection.
func NewBillStoreFromDB(db *sql.DB) (*BillStore, error) {
	s := &BillStore{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

// migrate creates the bills table if it doesn't exist.
func (s *BillStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS bills (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			origin_house TEXT NOT NULL,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status);
		CREATE INDEX IF NOT EXISTS idx_bills_category ON bills(category);
		CREATE INDEX IF NOT EXISTS idx_bills_created_at ON bills(created_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// Save persists a new bill.
func (s *BillStore) Save(ctx context.Context, b *bill.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if b.ID == "" {
		return bill.ErrInvalidBillID
	}

	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bills (id, title, category, status, origin_house, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, string(b.Category), string(b.Status), string(b.OriginHouse),
		data, b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return bill.ErrBillExists
		}
		return err
	}

	return nil
}

// Get retrieves a bill by ID.
func (s *BillStore) Get(ctx context.Context, id string) (*bill.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, bill.ErrInvalidBillID
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM bills WHERE id = ?",
		id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, bill.ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}

	var b bill.Bill
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}

	return &b, nil
}

// Update updates an existing bill.
func (s *BillStore) Update(ctx context.Context, b *bill.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if b.ID == "" {
		return bill.ErrInvalidBillID
	}

	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE bills SET
			title = ?, category = ?, status = ?, origin_house = ?,
			data = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, string(b.Category), string(b.Status), string(b.OriginHouse),
		data, b.UpdatedAt.Unix(), b.ID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return bill.ErrBillNotFound
	}

	return nil
}

// UpdateStatus moves a bill from prior to next atomically. The read and
// conditional write run in one transaction; a status mismatch rolls back
// with ErrStatusConflict.
func (s *BillStore) UpdateStatus(ctx context.Context, id string, prior, next bill.Status, entry bill.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return bill.ErrInvalidBillID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var data []byte
	err = tx.QueryRowContext(ctx, "SELECT data FROM bills WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return bill.ErrBillNotFound
	}
	if err != nil {
		return err
	}

	var b bill.Bill
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}

	if b.Status != prior {
		return bill.ErrStatusConflict
	}

	b.Status = next
	b.History = append(b.History, entry)
	b.UpdatedAt = entry.OccurredAt

	updated, err := json.Marshal(&b)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE bills SET status = ?, data = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(next), updated, b.UpdatedAt.Unix(), id, string(prior),
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return bill.ErrStatusConflict
	}

	return tx.Commit()
}

// Delete removes a bill by ID.
func (s *BillStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return bill.ErrInvalidBillID
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return bill.ErrBillNotFound
	}

	return nil
}

// List returns bills matching the filter.
func (s *BillStore) List(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query, args := s.buildListQuery(filter, false)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var bills []*bill.Bill
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var b bill.Bill
		if err := json.Unmarshal(data, &b); err != nil {
			continue // Skip malformed entries
		}

		bills = append(bills, &b)
	}

	return bills, rows.Err()
}

// Count returns the number of bills matching the filter.
func (s *BillStore) Count(ctx context.Context, filter bill.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	query, args := s.buildListQuery(filter, true)

	var count int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// Summary returns aggregate dashboard statistics.
func (s *BillStore) Summary(ctx context.Context) (bill.Summary, error) {
	if err := ctx.Err(); err != nil {
		return bill.Summary{}, err
	}

	summary := bill.Summary{
		ByHouse:    make(map[bill.House]int64),
		ByCategory: make(map[bill.Category]int64),
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT status, category, origin_house, COUNT(*) FROM bills GROUP BY status, category, origin_house")
	if err != nil {
		return bill.Summary{}, err
	}
	defer func() { _ = rows.Close() }()

	byStatus := make(map[bill.Status]int64)
	for rows.Next() {
		var status, category, house string
		var count int64
		if err := rows.Scan(&status, &category, &house, &count); err != nil {
			return bill.Summary{}, err
		}

		summary.Total += count
		summary.ByHouse[bill.House(house)] += count
		summary.ByCategory[bill.Category(category)] += count
		byStatus[bill.Status(status)] += count

		switch bill.Status(status) {
		case bill.StatusGazettePublished:
			summary.GazettePublished += count
		case bill.StatusSpeakerCert, bill.StatusPresidentialRev:
			summary.AwaitingAuthentication += count
		case bill.StatusCommitteeReview, bill.StatusClauseVoting:
			summary.InCommittee += count
		}
	}
	if err := rows.Err(); err != nil {
		return bill.Summary{}, err
	}

	for status, count := range byStatus {
		summary.ByStatus = append(summary.ByStatus, bill.StatusCount{Status: status, Count: count})
	}
	sort.Slice(summary.ByStatus, func(i, j int) bool {
		if summary.ByStatus[i].Count != summary.ByStatus[j].Count {
			return summary.ByStatus[i].Count > summary.ByStatus[j].Count
		}
		return summary.ByStatus[i].Status < summary.ByStatus[j].Status
	})

	return summary, nil
}

// buildListQuery builds the SQL query for listing bills.
func (s *BillStore) buildListQuery(filter bill.ListFilter, countOnly bool) (string, []interface{}) {
	var query string
	if countOnly {
		query = "SELECT COUNT(*) FROM bills"
	} else {
		query = "SELECT data FROM bills"
	}

	where, args := s.buildWhereClause(filter)

	if where != "" {
		query += " WHERE " + where
	}

	if !countOnly {
		orderBy := "created_at"
		switch filter.OrderBy {
		case bill.OrderByUpdatedAt:
			orderBy = "updated_at"
		case bill.OrderByID:
			orderBy = "id"
		case bill.OrderByStatus:
			orderBy = "status"
		}

		query += " ORDER BY " + orderBy
		if filter.Descending {
			query += " DESC"
		}

		if filter.Limit > 0 {
			query += " LIMIT ?"
			args = append(args, filter.Limit)
		}

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return query, args
}

// buildWhereClause builds the WHERE clause for filtering.
func (s *BillStore) buildWhereClause(filter bill.ListFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			placeholders[i] = "?"
			args = append(args, string(category))
		}
		conditions = append(conditions, "category IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.House != "" {
		conditions = append(conditions, "origin_house = ?")
		args = append(args, string(filter.House))
	}

	if !filter.FromTime.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.FromTime.Unix())
	}

	if !filter.ToTime.IsZero() {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.ToTime.Unix())
	}

	if filter.TitlePattern != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+filter.TitlePattern+"%")
	}

	return strings.Join(conditions, " AND "), args
}

// Close closes the database connection.
func (s *BillStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *BillStore) DB() *sql.DB {
	return s.db
}

// isUniqueViolation checks if the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure BillStore implements bill.Store and bill.SummaryProvider
var (
	_ bill.Store           = (*BillStore)(nil)
	_ bill.SummaryProvider = (*BillStore)(nil)
)
