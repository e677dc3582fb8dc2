package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"urmoney/internal/core"
)

type fakeRepo struct {
	mu           sync.Mutex
	nextID       int64
	transactions map[int64]core.TransactionInput
	categories   map[int64]core.CategoryInput
	statsErr     error
	closed       bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		transactions: map[int64]core.TransactionInput{},
		categories:   map[int64]core.CategoryInput{},
	}
}

func (f *fakeRepo) ListTransactions(ctx context.Context) ([]core.EnrichedTransaction, error) {
	return []core.EnrichedTransaction{}, nil
}

func (f *fakeRepo) GetTransaction(ctx context.Context, id int64) (core.EnrichedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.transactions[id]
	if !ok {
		return core.EnrichedTransaction{}, core.ErrNotFound
	}
	return core.EnrichedTransaction{Transaction: core.Transaction{ID: id, Description: in.Description}}, nil
}

func (f *fakeRepo) CreateTransaction(ctx context.Context, in core.TransactionInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.transactions[f.nextID] = in
	return f.nextID, nil
}

func (f *fakeRepo) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[id]; !ok {
		return 0, nil
	}
	f.transactions[id] = in
	return 1, nil
}

func (f *fakeRepo) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[id]; !ok {
		return 0, nil
	}
	delete(f.transactions, id)
	return 1, nil
}

func (f *fakeRepo) ListCategories(ctx context.Context) ([]core.Category, error) {
	return []core.Category{}, nil
}

func (f *fakeRepo) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	return core.Category{}, core.ErrNotFound
}

func (f *fakeRepo) CreateCategory(ctx context.Context, in core.CategoryInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Name == in.Name {
			return 0, core.ErrConflict
		}
	}
	f.nextID++
	f.categories[f.nextID] = in
	return f.nextID, nil
}

func (f *fakeRepo) UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return 0, nil
	}
	f.categories[id] = in
	return 1, nil
}

func (f *fakeRepo) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return 0, nil
	}
	delete(f.categories, id)
	return 1, nil
}

func (f *fakeRepo) ComputeStatistics(ctx context.Context) (core.Statistics, error) {
	if f.statsErr != nil {
		return core.Statistics{}, f.statsErr
	}
	return core.Statistics{TotalExpenses: core.Money{Cents: 1250}, TotalTransactions: 1}, nil
}

func (f *fakeRepo) ComputeSpendingByCategory(ctx context.Context) ([]core.CategorySpending, error) {
	return []core.CategorySpending{{Name: "Food", Color: "#EF4444", Total: core.Money{Cents: 1250}, Count: 1}}, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

func (f *fakeRepo) Close() error {
	f.closed = true
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []core.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(ctx context.Context, ev core.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func validInput() core.TransactionInput {
	return core.TransactionInput{
		Description: " Lunch ",
		Amount:      core.Money{Cents: 1250},
		Type:        core.Expense,
		Date:        core.NewDate(2024, 3, 1),
	}
}

func TestLedger_TransactionLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	ledger := NewLedger(newFakeRepo(), pub)

	id, err := ledger.CreateTransaction(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := ledger.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Lunch" {
		t.Errorf("description should be trimmed, got %q", got.Description)
	}
	if err := ledger.UpdateTransaction(ctx, id, validInput()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := ledger.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"transaction.created", "transaction.updated", "transaction.deleted"}
	if len(pub.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(pub.events))
	}
	for i, name := range want {
		if pub.events[i].Name() != name || pub.events[i].ID != id {
			t.Errorf("event %d = %s/%d, want %s/%d", i, pub.events[i].Name(), pub.events[i].ID, name, id)
		}
	}
}

func TestLedger_FailedWritesPublishNothing(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	ledger := NewLedger(newFakeRepo(), pub)

	bad := validInput()
	bad.Amount = core.Money{}
	if _, err := ledger.CreateTransaction(ctx, bad); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := ledger.UpdateTransaction(ctx, 99, validInput()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := ledger.DeleteTransaction(ctx, 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := ledger.DeleteCategory(ctx, 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := ledger.CreateCategory(ctx, core.CategoryInput{Name: "  "}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events, got %d", len(pub.events))
	}
}

func TestLedger_PublishErrorDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	ledger := NewLedger(newFakeRepo(), pub)

	cat, err := ledger.CreateCategory(ctx, core.CategoryInput{Name: "Food"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if cat.Color != core.DefaultCategoryColor {
		t.Errorf("expected default color, got %q", cat.Color)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 publish attempt, got %d", len(pub.events))
	}
}

func TestLedger_DuplicateCategory(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newFakeRepo(), nil)

	if _, err := ledger.CreateCategory(ctx, core.CategoryInput{Name: "Food"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ledger.CreateCategory(ctx, core.CategoryInput{Name: "Food"}); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLedger_Dashboard(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	ledger := NewLedger(repo, nil)

	d, err := ledger.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Statistics.TotalExpenses.Cents != 1250 || len(d.SpendingByCategory) != 1 {
		t.Fatalf("unexpected dashboard: %+v", d)
	}

	repo.statsErr = errors.New("disk I/O error")
	if _, err := ledger.Dashboard(ctx); err == nil {
		t.Fatal("expected dashboard error")
	}
}

func TestLedger_Close(t *testing.T) {
	t.Run("nil publisher", func(t *testing.T) {
		repo := newFakeRepo()
		ledger := NewLedger(repo, nil)

		if err := ledger.Close(); err != nil {
			t.Fatalf("Close should not return error with nil publisher: %v", err)
		}
		if !repo.closed {
			t.Error("expected repository to be closed")
		}
	})
}
