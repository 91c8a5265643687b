package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/infrastructure/storage/sqlite"
)

func newTestBillStore(t *testing.T) *sqlite.BillStore {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := sqlite.Config{
		DSN:         "file:" + tmpDir + "/test.db?mode=rwc",
		AutoMigrate: true,
	}

	store, err := sqlite.NewBillStore(cfg)
	if err != nil {
		t.Fatalf("NewBillStore failed: %v", err)
	}
	return store
}

func newSQLiteBill(t *testing.T, title string, category bill.Category) *bill.Bill {
	t.Helper()
	b, err := bill.New(title, category, bill.HouseOfRepresentatives)
	if err != nil {
		t.Fatalf("bill.New() error = %v", err)
	}
	return b
}

func TestNewBillStore(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	if store.DB() == nil {
		t.Fatal("expected database connection, got nil")
	}
}

func TestBillStore_SaveAndGet(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	b := newSQLiteBill(t, "Civil Service Bill", bill.CategoryGovernment)
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if loaded.ID != b.ID {
		t.Errorf("expected ID %s, got %s", b.ID, loaded.ID)
	}
	if loaded.Title != b.Title {
		t.Errorf("expected Title %s, got %s", b.Title, loaded.Title)
	}
	if loaded.Status != bill.StatusDraft {
		t.Errorf("expected Status DRAFT, got %s", loaded.Status)
	}
}

func TestBillStore_SaveDuplicate(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	b := newSQLiteBill(t, "Duplicate Bill", bill.CategoryGovernment)
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, b); !errors.Is(err, bill.ErrBillExists) {
		t.Errorf("expected ErrBillExists, got %v", err)
	}
}

func TestBillStore_GetNotFound(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, bill.ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound, got %v", err)
	}
}

func TestBillStore_Update(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	b := newSQLiteBill(t, "Update Bill", bill.CategoryGovernment)
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	b.Number = "2081-12"
	b.UpdatedAt = time.Now()
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	loaded, err := store.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.Number != "2081-12" {
		t.Errorf("expected Number 2081-12, got %s", loaded.Number)
	}
}

func TestBillStore_UpdateNotFound(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	b := newSQLiteBill(t, "Ghost Bill", bill.CategoryGovernment)
	if err := store.Update(context.Background(), b); !errors.Is(err, bill.ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound, got %v", err)
	}
}

func TestBillStore_UpdateStatus(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	b := newSQLiteBill(t, "Status Bill", bill.CategoryGovernment)
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	entry := bill.HistoryEntry{
		ID:          "h1",
		FromStatus:  bill.StatusDraft,
		ToStatus:    bill.StatusLawMinistryReview,
		TriggeredBy: bill.RoleMinistry,
		OccurredAt:  at,
	}
	if err := store.UpdateStatus(ctx, b.ID, bill.StatusDraft, bill.StatusLawMinistryReview, entry); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	loaded, err := store.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.Status != bill.StatusLawMinistryReview {
		t.Errorf("expected Status LAW_MINISTRY_REVIEW, got %s", loaded.Status)
	}
	if len(loaded.History) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(loaded.History))
	}
}

func TestBillStore_UpdateStatusConflict(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	b := newSQLiteBill(t, "Conflict Bill", bill.CategoryGovernment)
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entry := bill.HistoryEntry{ID: "h1", OccurredAt: time.Now()}
	err := store.UpdateStatus(ctx, b.ID, bill.StatusRegistered, bill.StatusFirstReading, entry)
	if !errors.Is(err, bill.ErrStatusConflict) {
		t.Errorf("expected ErrStatusConflict, got %v", err)
	}

	loaded, _ := store.Get(ctx, b.ID)
	if loaded.Status != bill.StatusDraft {
		t.Errorf("status changed on conflict: %s", loaded.Status)
	}
}

func TestBillStore_Delete(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	b := newSQLiteBill(t, "Delete Bill", bill.CategoryGovernment)
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, b.ID); !errors.Is(err, bill.ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, b.ID); !errors.Is(err, bill.ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound on second delete, got %v", err)
	}
}

func TestBillStore_ListAndCount(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	gov := newSQLiteBill(t, "Forest Conservation Bill", bill.CategoryGovernment)
	gov.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	priv := newSQLiteBill(t, "Community Radio Bill", bill.CategoryPrivate)
	priv.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	money := newSQLiteBill(t, "Finance Bill", bill.CategoryMoney)
	money.CreatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	money.Status = bill.StatusRegistered

	for _, b := range []*bill.Bill{gov, priv, money} {
		if err := store.Save(ctx, b); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	all, err := store.List(ctx, bill.ListFilter{OrderBy: bill.OrderByCreatedAt})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(all))
	}
	if all[0].ID != gov.ID {
		t.Errorf("expected oldest bill first, got %s", all[0].Title)
	}

	byStatus, err := store.List(ctx, bill.ListFilter{Statuses: []bill.Status{bill.StatusRegistered}})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != money.ID {
		t.Errorf("status filter returned %d bills", len(byStatus))
	}

	byTitle, err := store.List(ctx, bill.ListFilter{TitlePattern: "Radio"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].ID != priv.ID {
		t.Errorf("title filter returned %d bills", len(byTitle))
	}

	page, err := store.List(ctx, bill.ListFilter{OrderBy: bill.OrderByCreatedAt, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != priv.ID {
		t.Error("pagination returned wrong bill")
	}

	count, err := store.Count(ctx, bill.ListFilter{Categories: []bill.Category{bill.CategoryMoney}})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestBillStore_Summary(t *testing.T) {
	store := newTestBillStore(t)
	defer store.Close()

	ctx := context.Background()

	statuses := []bill.Status{
		bill.StatusDraft,
		bill.StatusCommitteeReview,
		bill.StatusPresidentialRev,
		bill.StatusGazettePublished,
	}
	for _, status := range statuses {
		b := newSQLiteBill(t, "Summary Bill", bill.CategoryGovernment)
		b.Status = status
		if err := store.Save(ctx, b); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if summary.Total != 4 {
		t.Errorf("expected total 4, got %d", summary.Total)
	}
	if summary.GazettePublished != 1 {
		t.Errorf("expected 1 gazette published, got %d", summary.GazettePublished)
	}
	if summary.AwaitingAuthentication != 1 {
		t.Errorf("expected 1 awaiting authentication, got %d", summary.AwaitingAuthentication)
	}
	if summary.InCommittee != 1 {
		t.Errorf("expected 1 in committee, got %d", summary.InCommittee)
	}
	if summary.ByHouse[bill.HouseOfRepresentatives] != 4 {
		t.Errorf("expected 4 HOR bills, got %d", summary.ByHouse[bill.HouseOfRepresentatives])
	}
}
