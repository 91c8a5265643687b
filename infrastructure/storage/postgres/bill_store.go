package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sansadwatch/billflow/domain/bill"
)

// BillStore is a PostgreSQL-backed implementation of bill.Store.
type BillStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewBillStore creates a new PostgreSQL bill store.
func NewBillStore(pool *pgxpool.Pool, schema string) *BillStore {
	if schema == "" {
		schema = "public"
	}
	return &BillStore{
		pool:   pool,
		schema: schema,
	}
}

// tableName returns the fully qualified table name.
func (s *BillStore) tableName() string {
	return fmt.Sprintf("%s.bills", s.schema)
}

// Save persists a new bill.
func (s *BillStore) Save(ctx context.Context, b *bill.Bill) error {
	if b.ID == "" {
		return bill.ErrInvalidBillID
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bill: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, category, status, origin_house, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.tableName())

	_, err = s.pool.Exec(ctx, query,
		b.ID,
		b.Title,
		string(b.Category),
		string(b.Status),
		string(b.OriginHouse),
		data,
		b.CreatedAt,
		b.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return bill.ErrBillExists
		}
		return s.wrapError(err)
	}

	return nil
}

// Get retrieves a bill by ID.
func (s *BillStore) Get(ctx context.Context, id string) (*bill.Bill, error) {
	if id == "" {
		return nil, bill.ErrInvalidBillID
	}

	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.tableName())

	var data []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bill.ErrBillNotFound
		}
		return nil, s.wrapError(err)
	}

	var b bill.Bill
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal bill: %w", err)
	}

	return &b, nil
}

// Update updates an existing bill.
func (s *BillStore) Update(ctx context.Context, b *bill.Bill) error {
	if b.ID == "" {
		return bill.ErrInvalidBillID
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bill: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2,
			category = $3,
			status = $4,
			origin_house = $5,
			data = $6,
			updated_at = $7
		WHERE id = $1
	`, s.tableName())

	result, err := s.pool.Exec(ctx, query,
		b.ID,
		b.Title,
		string(b.Category),
		string(b.Status),
		string(b.OriginHouse),
		data,
		b.UpdatedAt,
	)

	if err != nil {
		return s.wrapError(err)
	}

	if result.RowsAffected() == 0 {
		return bill.ErrBillNotFound
	}

	return nil
}

// UpdateStatus moves a bill from prior to next atomically. The conditional
// write runs inside a transaction; a stored status that no longer equals
// prior fails with ErrStatusConflict.
func (s *BillStore) UpdateStatus(ctx context.Context, id string, prior, next bill.Status, entry bill.HistoryEntry) error {
	if id == "" {
		return bill.ErrInvalidBillID
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return s.wrapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1 FOR UPDATE`, s.tableName())

	var data []byte
	err = tx.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bill.ErrBillNotFound
		}
		return s.wrapError(err)
	}

	var b bill.Bill
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("unmarshal bill: %w", err)
	}

	if b.Status != prior {
		return bill.ErrStatusConflict
	}

	b.Status = next
	b.History = append(b.History, entry)
	b.UpdatedAt = entry.OccurredAt

	updated, err := json.Marshal(&b)
	if err != nil {
		return fmt.Errorf("marshal bill: %w", err)
	}

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, data = $3, updated_at = $4
		WHERE id = $1 AND status = $5
	`, s.tableName())

	result, err := tx.Exec(ctx, updateQuery, id, string(next), updated, b.UpdatedAt, string(prior))
	if err != nil {
		return s.wrapError(err)
	}
	if result.RowsAffected() == 0 {
		return bill.ErrStatusConflict
	}

	return tx.Commit(ctx)
}

// Delete removes a bill by ID.
func (s *BillStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return bill.ErrInvalidBillID
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tableName())

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return s.wrapError(err)
	}

	if result.RowsAffected() == 0 {
		return bill.ErrBillNotFound
	}

	return nil
}

// List returns bills matching the filter.
func (s *BillStore) List(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	query, args := s.buildListQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

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

	if err := rows.Err(); err != nil {
		return nil, s.wrapError(err)
	}

	return bills, nil
}

// Count returns the number of bills matching the filter.
func (s *BillStore) Count(ctx context.Context, filter bill.ListFilter) (int64, error) {
	whereClause, args := s.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, s.tableName(), whereClause)

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, s.wrapError(err)
	}

	return count, nil
}

// Summary returns aggregate dashboard statistics.
func (s *BillStore) Summary(ctx context.Context) (bill.Summary, error) {
	query := fmt.Sprintf(`
		SELECT status, category, origin_house, COUNT(*)
		FROM %s
		GROUP BY status, category, origin_house
	`, s.tableName())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return bill.Summary{}, s.wrapError(err)
	}
	defer rows.Close()

	summary := bill.Summary{
		ByHouse:    make(map[bill.House]int64),
		ByCategory: make(map[bill.Category]int64),
	}
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
		return bill.Summary{}, s.wrapError(err)
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

// buildListQuery constructs the SELECT query for listing bills.
func (s *BillStore) buildListQuery(filter bill.ListFilter) (string, []any) {
	whereClause, args := s.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT data FROM %s %s`, s.tableName(), whereClause)

	orderBy := "created_at"
	switch filter.OrderBy {
	case bill.OrderByUpdatedAt:
		orderBy = "updated_at"
	case bill.OrderByID:
		orderBy = "id"
	case bill.OrderByStatus:
		orderBy = "status"
	}

	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	query += fmt.Sprintf(" ORDER BY %s %s NULLS LAST", orderBy, direction)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}

// buildWhereClause constructs the WHERE clause from filter.
func (s *BillStore) buildWhereClause(filter bill.ListFilter) (string, []any) {
	var conditions []string
	var args []any
	argNum := 0

	if len(filter.Statuses) > 0 {
		argNum++
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", argNum))
	}

	if len(filter.Categories) > 0 {
		argNum++
		categories := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			categories[i] = string(category)
		}
		args = append(args, categories)
		conditions = append(conditions, fmt.Sprintf("category = ANY($%d)", argNum))
	}

	if filter.House != "" {
		argNum++
		args = append(args, string(filter.House))
		conditions = append(conditions, fmt.Sprintf("origin_house = $%d", argNum))
	}

	if !filter.FromTime.IsZero() {
		argNum++
		args = append(args, filter.FromTime)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
	}

	if !filter.ToTime.IsZero() {
		argNum++
		args = append(args, filter.ToTime)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argNum))
	}

	if filter.TitlePattern != "" {
		argNum++
		args = append(args, "%"+filter.TitlePattern+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argNum))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// wrapError wraps database errors with domain errors.
func (s *BillStore) wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	return errors.Join(ErrConnectionFailed, err)
}

// Ensure BillStore implements bill.Store and bill.SummaryProvider
var (
	_ bill.Store           = (*BillStore)(nil)
	_ bill.SummaryProvider = (*BillStore)(nil)
)
