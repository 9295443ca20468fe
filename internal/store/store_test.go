package store

import (
	"context"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/rajpandit/expense-tracker/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return s
}

func strPtr(s string) *string { return &s }

func sampleRecord() *domain.TransactionRecord {
	return &domain.TransactionRecord{
		TransactionDate: civil.Date{Year: 2024, Month: 6, Day: 10},
		BankName:        strPtr("Citi"),
		AccountType:     strPtr("Savings Account"),
		Amount:          decimal.NewFromInt(500),
		Currency:        "INR",
		Category:        "Leisure",
		Description:     "A2B restaurant bill",
		UserEmail:       "raj@example.com",
		CreatedDate:     &civil.Date{Year: 2024, Month: 6, Day: 10},
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	s := newTestStore(t)

	// Running it again must not fail or clobber data.
	if _, err := s.Insert(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	records, err := s.Fetch(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records after re-running EnsureSchema, want 1", len(records))
	}
}

func TestInsert_AssignsID(t *testing.T) {
	s := newTestStore(t)

	rec := sampleRecord()
	result, err := s.Insert(context.Background(), rec)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !result.Saved {
		t.Fatalf("expected Saved, got %+v", result)
	}
	if result.Message != MsgSaved {
		t.Errorf("Message = %q, want %q", result.Message, MsgSaved)
	}
	if rec.ID == 0 {
		t.Error("Insert should assign the record ID")
	}
}

func TestInsert_DuplicateSuppressed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Insert(ctx, sampleRecord()); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	// Identical record, description in a different case.
	dup := sampleRecord()
	dup.Description = "a2b RESTAURANT bill"

	result, err := s.Insert(ctx, dup)
	if err != nil {
		t.Fatalf("second Insert failed: %v", err)
	}
	if result.Saved {
		t.Error("duplicate record should not be saved")
	}
	if result.Message != MsgDuplicate {
		t.Errorf("Message = %q, want %q", result.Message, MsgDuplicate)
	}

	records, err := s.Fetch(ctx, Filter{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d rows, want exactly 1", len(records))
	}
}

func TestInsert_NullFieldsCompareEqual(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord()
	rec.BankName = nil
	rec.AccountType = nil
	rec.Currency = ""
	if _, err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	again := sampleRecord()
	again.BankName = nil
	again.AccountType = nil
	again.Currency = ""

	result, err := s.Insert(ctx, again)
	if err != nil {
		t.Fatalf("second Insert failed: %v", err)
	}
	if result.Saved {
		t.Error("records with matching NULL fields should be duplicates")
	}
}

func TestInsert_DifferentAmountIsNotDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Insert(ctx, sampleRecord()); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	other := sampleRecord()
	other.Amount = decimal.NewFromInt(501)

	result, err := s.Insert(ctx, other)
	if err != nil {
		t.Fatalf("second Insert failed: %v", err)
	}
	if !result.Saved {
		t.Error("record with different amount should be saved")
	}
}

func TestFetch_OrderAndRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dates := []civil.Date{
		{Year: 2024, Month: 6, Day: 1},
		{Year: 2024, Month: 6, Day: 15},
		{Year: 2024, Month: 5, Day: 20},
	}
	for i, d := range dates {
		rec := sampleRecord()
		rec.TransactionDate = d
		rec.Amount = decimal.NewFromInt(int64(100 + i)) // keep them distinct
		if _, err := s.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	all, err := s.Fetch(ctx, Filter{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].TransactionDate.After(all[i-1].TransactionDate) {
			t.Errorf("records not in descending date order: %v before %v",
				all[i-1].TransactionDate, all[i].TransactionDate)
		}
	}

	start := civil.Date{Year: 2024, Month: 6, Day: 1}
	end := civil.Date{Year: 2024, Month: 6, Day: 30}
	june, err := s.Fetch(ctx, Filter{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("Fetch with range failed: %v", err)
	}
	if len(june) != 2 {
		t.Fatalf("got %d records in June, want 2", len(june))
	}
	for _, rec := range june {
		if rec.TransactionDate.Before(start) || rec.TransactionDate.After(end) {
			t.Errorf("record date %v outside [%v, %v]", rec.TransactionDate, start, end)
		}
	}

	// Inclusive boundary: the range [2024-06-01, 2024-06-01] matches that day.
	single, err := s.Fetch(ctx, Filter{Start: &start, End: &start})
	if err != nil {
		t.Fatalf("Fetch single-day range failed: %v", err)
	}
	if len(single) != 1 {
		t.Errorf("got %d records for single-day range, want 1", len(single))
	}
}

func TestFetch_UserScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mine := sampleRecord()
	if _, err := s.Insert(ctx, mine); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	theirs := sampleRecord()
	theirs.UserEmail = "other@example.com"
	theirs.Amount = decimal.NewFromInt(42)
	if _, err := s.Insert(ctx, theirs); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	records, err := s.Fetch(ctx, Filter{UserEmail: "raj@example.com"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 1 || records[0].UserEmail != "raj@example.com" {
		t.Errorf("user-scoped fetch returned %d records", len(records))
	}
}

func TestFetch_RoundTripsFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord()
	if _, err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	records, err := s.Fetch(ctx, Filter{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	got := records[0]

	if got.ID != rec.ID {
		t.Errorf("ID = %d, want %d", got.ID, rec.ID)
	}
	if got.TransactionDate != rec.TransactionDate {
		t.Errorf("TransactionDate = %v, want %v", got.TransactionDate, rec.TransactionDate)
	}
	if got.BankName == nil || *got.BankName != "Citi" {
		t.Errorf("BankName = %v, want Citi", got.BankName)
	}
	if !got.Amount.Equal(rec.Amount) {
		t.Errorf("Amount = %v, want %v", got.Amount, rec.Amount)
	}
	if got.Currency != "INR" || got.Category != "Leisure" {
		t.Errorf("Currency/Category = %q/%q", got.Currency, got.Category)
	}
	if got.CreatedDate == nil || *got.CreatedDate != *rec.CreatedDate {
		t.Errorf("CreatedDate = %v, want %v", got.CreatedDate, rec.CreatedDate)
	}
}

func TestDeleteByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		rec := sampleRecord()
		rec.Amount = decimal.NewFromInt(int64(i + 1))
		if _, err := s.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	// Delete two existing rows plus one ID that does not exist.
	deleted, err := s.DeleteByIDs(ctx, []int64{ids[0], ids[2], 9999})
	if err != nil {
		t.Fatalf("DeleteByIDs failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2 (non-existent ID must not count)", deleted)
	}

	records, err := s.Fetch(ctx, Filter{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after delete, want 1", len(records))
	}
	if records[0].ID != ids[1] {
		t.Errorf("surviving record ID = %d, want %d", records[0].ID, ids[1])
	}
}

func TestDeleteByIDs_EmptySet(t *testing.T) {
	s := newTestStore(t)

	deleted, err := s.DeleteByIDs(context.Background(), nil)
	if err != nil {
		t.Errorf("DeleteByIDs with no ids should be a no-op, got %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}
