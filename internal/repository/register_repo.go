package repository

import (
	"context"

	"bookpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RegisterRepository interface {
	CreateSession(ctx context.Context, s *model.CashRegister) error
	FindOpenSession(ctx context.Context) (*model.CashRegister, error)
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	UpdateSession(ctx context.Context, s *model.CashRegister) error
	CreateWithdrawal(ctx context.Context, w *model.CashWithdrawal) error
	ListClosedSessions(ctx context.Context, page, limit int) ([]model.CashRegister, int64, error)

	// Balance inputs — always aggregated fresh, never cached.
	SumTransactions(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error)
	SumWithdrawals(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error)
	SumPaymentsByMethod(ctx context.Context, registerID uuid.UUID) (map[string]decimal.Decimal, error)
	CountTransactionsByType(ctx context.Context, registerID uuid.UUID) (map[string]int64, error)
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) CreateSession(ctx context.Context, s *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *registerRepo) FindOpenSession(ctx context.Context) (*model.CashRegister, error) {
	var s model.CashRegister
	err := r.db.WithContext(ctx).
		Preload("Transactions.Payments").
		Preload("Withdrawals").
		Where("status = ?", model.RegisterOpen).
		First(&s).Error
	return &s, err
}

func (r *registerRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var s model.CashRegister
	err := r.db.WithContext(ctx).
		Preload("Transactions").
		Preload("Withdrawals").
		First(&s, id).Error
	return &s, err
}

func (r *registerRepo) UpdateSession(ctx context.Context, s *model.CashRegister) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *registerRepo) CreateWithdrawal(ctx context.Context, w *model.CashWithdrawal) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *registerRepo) ListClosedSessions(ctx context.Context, page, limit int) ([]model.CashRegister, int64, error) {
	var sessions []model.CashRegister
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CashRegister{}).Where("status = ?", model.RegisterClosed)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("closed_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&sessions).Error
	return sessions, total, err
}

func (r *registerRepo) SumTransactions(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("cash_register_id = ?", registerID).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *registerRepo) SumWithdrawals(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.CashWithdrawal{}).
		Where("cash_register_id = ?", registerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *registerRepo) SumPaymentsByMethod(ctx context.Context, registerID uuid.UUID) (map[string]decimal.Decimal, error) {
	rows := []struct {
		Method string
		Total  decimal.Decimal
	}{}
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Select("payments.method AS method, COALESCE(SUM(payments.amount), 0) AS total").
		Joins("JOIN transactions ON transactions.id = payments.transaction_id").
		Where("transactions.cash_register_id = ?", registerID).
		Group("payments.method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Method] = row.Total
	}
	return sums, nil
}

func (r *registerRepo) CountTransactionsByType(ctx context.Context, registerID uuid.UUID) (map[string]int64, error) {
	rows := []struct {
		Type  string
		Count int64
	}{}
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("type, COUNT(*) AS count").
		Where("cash_register_id = ?", registerID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
