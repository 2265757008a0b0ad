package repository

import (
	"context"

	"bookpos/internal/dto"
	"bookpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Tx variants run inside a workflow transaction — callers pass the tx instance.
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	UpdateTx(tx *gorm.DB, t *model.Transaction) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeletePaymentsTx(tx *gorm.DB, transactionID uuid.UUID) error
	NextReceiptNo(ctx context.Context, tx *gorm.DB) (int, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ListBySaleGroup(ctx context.Context, groupID uuid.UUID) ([]model.Transaction, error)
	PaymentsBySaleGroup(ctx context.Context, groupID uuid.UUID) ([]model.Payment, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)

	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) UpdateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Save(t).Error
}

func (r *transactionRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	// Payments cascade at the DB level, but delete them explicitly so the
	// behavior does not depend on constraint wiring.
	if err := r.DeletePaymentsTx(tx, id); err != nil {
		return err
	}
	return tx.Delete(&model.Transaction{}, id).Error
}

func (r *transactionRepo) DeletePaymentsTx(tx *gorm.DB, transactionID uuid.UUID) error {
	return tx.Where("transaction_id = ?", transactionID).Delete(&model.Payment{}).Error
}

func (r *transactionRepo) NextReceiptNo(ctx context.Context, tx *gorm.DB) (int, error) {
	// Postgres sequence — atomic, monotonic receipt numbering.
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('transactions_receipt_seq')").Scan(&num).Error
	return num, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("ReturnedBook").
		Preload("Payments").
		First(&t, id).Error
	return &t, err
}

func (r *transactionRepo) ListBySaleGroup(ctx context.Context, groupID uuid.UUID) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Payments").
		Where("sale_group_id = ?", groupID).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) PaymentsBySaleGroup(ctx context.Context, groupID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN transactions ON transactions.id = payments.transaction_id").
		Where("transactions.sale_group_id = ?", groupID).
		Order("payments.created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.Type != "" && filter.Type != "all" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Date != "" {
		q = q.Where("DATE(transaction_date) = ?", filter.Date)
	} else {
		q = q.Where("DATE(transaction_date) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Book").Preload("Payments").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&txs).Error
	return txs, total, err
}
