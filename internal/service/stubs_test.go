package service_test

import (
	"context"
	"time"

	"bookpos/internal/dto"
	"bookpos/internal/model"
	"bookpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Shared in-memory store ───────────────────────────────────────────────────
// One store backs all three repository stubs so cross-repository workflows
// (sale → register balance) behave like production. The stubs implement the
// same guarded stock semantics as the real GORM repositories.

type memStore struct {
	books        map[uuid.UUID]*model.Book
	sessions     map[uuid.UUID]*model.CashRegister
	withdrawals  []model.CashWithdrawal
	transactions map[uuid.UUID]*model.Transaction
	receiptSeq   int
}

func newMemStore() *memStore {
	return &memStore{
		books:        make(map[uuid.UUID]*model.Book),
		sessions:     make(map[uuid.UUID]*model.CashRegister),
		transactions: make(map[uuid.UUID]*model.Transaction),
	}
}

func (m *memStore) addBook(title string, coverPrice, salePrice float64, qty int) *model.Book {
	b := &model.Book{
		ID:         uuid.New(),
		Code:       "B-" + uuid.NewString()[:8],
		Title:      title,
		Author:     "Test Author",
		CoverPrice: decimal.NewFromFloat(coverPrice),
		SalePrice:  decimal.NewFromFloat(salePrice),
		Quantity:   qty,
		Active:     true,
	}
	m.books[b.ID] = b
	return b
}

// ── BookRepository stub ──────────────────────────────────────────────────────

type bookStub struct{ m *memStore }

func (r *bookStub) Create(_ context.Context, b *model.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.m.books[b.ID] = &cp
	return nil
}

func (r *bookStub) FindByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := r.m.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *bookStub) FindByBarcode(_ context.Context, barcode string) (*model.Book, error) {
	for _, b := range r.m.books {
		if b.Barcode != nil && *b.Barcode == barcode && b.Active {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *bookStub) List(_ context.Context, filter dto.BookFilter) ([]model.Book, int64, error) {
	var out []model.Book
	for _, b := range r.m.books {
		if filter.Active == "" && !b.Active {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *bookStub) Update(_ context.Context, b *model.Book) error {
	cp := *b
	r.m.books[b.ID] = &cp
	return nil
}

func (r *bookStub) SoftDelete(_ context.Context, id uuid.UUID) error {
	if b, ok := r.m.books[id]; ok {
		b.Active = false
	}
	return nil
}

func (r *bookStub) Reactivate(_ context.Context, id uuid.UUID) error {
	if b, ok := r.m.books[id]; ok {
		b.Active = true
	}
	return nil
}

func (r *bookStub) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	b, ok := r.m.books[id]
	if !ok || b.Quantity+delta < 0 {
		return repository.ErrStockConflict
	}
	b.Quantity += delta
	return nil
}

func (r *bookStub) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	return r.AdjustStockTx(nil, id, delta)
}

func (r *bookStub) DB() *gorm.DB { return nil }

var _ repository.BookRepository = (*bookStub)(nil)

// ── RegisterRepository stub ──────────────────────────────────────────────────

type registerStub struct{ m *memStore }

func (r *registerStub) CreateSession(_ context.Context, s *model.CashRegister) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now().UTC()
	}
	cp := *s
	r.m.sessions[s.ID] = &cp
	return nil
}

func (r *registerStub) FindOpenSession(_ context.Context) (*model.CashRegister, error) {
	for _, s := range r.m.sessions {
		if s.Status == model.RegisterOpen {
			return r.hydrate(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *registerStub) FindSessionByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	s, ok := r.m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(s), nil
}

func (r *registerStub) hydrate(s *model.CashRegister) *model.CashRegister {
	cp := *s
	cp.Transactions = nil
	cp.Withdrawals = nil
	for _, t := range r.m.transactions {
		if t.CashRegisterID == s.ID {
			cp.Transactions = append(cp.Transactions, *t)
		}
	}
	for _, w := range r.m.withdrawals {
		if w.CashRegisterID == s.ID {
			cp.Withdrawals = append(cp.Withdrawals, w)
		}
	}
	return &cp
}

func (r *registerStub) UpdateSession(_ context.Context, s *model.CashRegister) error {
	cp := *s
	r.m.sessions[s.ID] = &cp
	return nil
}

func (r *registerStub) CreateWithdrawal(_ context.Context, w *model.CashWithdrawal) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.CreatedAt = time.Now().UTC()
	r.m.withdrawals = append(r.m.withdrawals, *w)
	return nil
}

func (r *registerStub) ListClosedSessions(_ context.Context, page, limit int) ([]model.CashRegister, int64, error) {
	var out []model.CashRegister
	for _, s := range r.m.sessions {
		if s.Status == model.RegisterClosed {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *registerStub) SumTransactions(_ context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range r.m.transactions {
		if t.CashRegisterID == registerID {
			total = total.Add(t.TotalAmount)
		}
	}
	return total, nil
}

func (r *registerStub) SumWithdrawals(_ context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, w := range r.m.withdrawals {
		if w.CashRegisterID == registerID {
			total = total.Add(w.Amount)
		}
	}
	return total, nil
}

func (r *registerStub) SumPaymentsByMethod(_ context.Context, registerID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, t := range r.m.transactions {
		if t.CashRegisterID != registerID {
			continue
		}
		for _, p := range t.Payments {
			sums[p.Method] = sums[p.Method].Add(p.Amount)
		}
	}
	return sums, nil
}

func (r *registerStub) CountTransactionsByType(_ context.Context, registerID uuid.UUID) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, t := range r.m.transactions {
		if t.CashRegisterID == registerID {
			counts[t.Type]++
		}
	}
	return counts, nil
}

var _ repository.RegisterRepository = (*registerStub)(nil)

// ── TransactionRepository stub ───────────────────────────────────────────────

type txStub struct{ m *memStore }

func (r *txStub) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now().UTC()
	for i := range t.Payments {
		if t.Payments[i].ID == uuid.Nil {
			t.Payments[i].ID = uuid.New()
		}
		t.Payments[i].TransactionID = t.ID
	}
	cp := *t
	cp.Payments = append([]model.Payment(nil), t.Payments...)
	r.m.transactions[t.ID] = &cp
	return nil
}

func (r *txStub) UpdateTx(_ *gorm.DB, t *model.Transaction) error {
	for i := range t.Payments {
		if t.Payments[i].ID == uuid.Nil {
			t.Payments[i].ID = uuid.New()
		}
		t.Payments[i].TransactionID = t.ID
	}
	cp := *t
	cp.Payments = append([]model.Payment(nil), t.Payments...)
	r.m.transactions[t.ID] = &cp
	return nil
}

func (r *txStub) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.m.transactions, id)
	return nil
}

func (r *txStub) DeletePaymentsTx(_ *gorm.DB, transactionID uuid.UUID) error {
	if t, ok := r.m.transactions[transactionID]; ok {
		t.Payments = nil
	}
	return nil
}

func (r *txStub) NextReceiptNo(_ context.Context, _ *gorm.DB) (int, error) {
	r.m.receiptSeq++
	return r.m.receiptSeq, nil
}

func (r *txStub) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, ok := r.m.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Payments = append([]model.Payment(nil), t.Payments...)
	return &cp, nil
}

func (r *txStub) ListBySaleGroup(_ context.Context, groupID uuid.UUID) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.m.transactions {
		if t.SaleGroupID != nil && *t.SaleGroupID == groupID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *txStub) PaymentsBySaleGroup(_ context.Context, groupID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, t := range r.m.transactions {
		if t.SaleGroupID != nil && *t.SaleGroupID == groupID {
			out = append(out, t.Payments...)
		}
	}
	return out, nil
}

func (r *txStub) List(_ context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	date := filter.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	var out []model.Transaction
	for _, t := range r.m.transactions {
		if t.TransactionDate.Format("2006-01-02") != date {
			continue
		}
		if filter.Type != "" && filter.Type != "all" && t.Type != filter.Type {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *txStub) DB() *gorm.DB { return nil }

var _ repository.TransactionRepository = (*txStub)(nil)
