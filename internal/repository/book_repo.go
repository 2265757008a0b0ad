package repository

import (
	"context"
	"errors"

	"bookpos/internal/dto"
	"bookpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookRepository defines the data access contract for books, including the
// stock ledger primitives. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via stubs.
type BookRepository interface {
	Create(ctx context.Context, b *model.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Book, error)
	List(ctx context.Context, filter dto.BookFilter) ([]model.Book, int64, error)
	Update(ctx context.Context, b *model.Book) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// AdjustStockTx applies a stock delta inside a workflow transaction.
	// The UPDATE is guarded: a delta that would drive quantity below zero
	// matches no row, and the implementation reports ErrStockConflict.
	// This is the atomic check-and-act the sale/exchange workflows rely on.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// AdjustStock is the standalone variant for manual inventory corrections.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

// ErrStockConflict is returned by guarded stock updates when the delta would
// make quantity negative (or the book row is missing).
var ErrStockConflict = errors.New("stock conflict")

type bookRepo struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) BookRepository { return &bookRepo{db: db} }

func (r *bookRepo) Create(ctx context.Context, b *model.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *bookRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).Where("barcode = ? AND active = true", barcode).First(&b).Error
	return &b, err
}

func (r *bookRepo) List(ctx context.Context, filter dto.BookFilter) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Book{})

	// Active filter: "false" = inactive, "all" = everything, default active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.Title != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.Author != "" {
		q = q.Where("author ILIKE ?", "%"+filter.Author+"%")
	}
	if filter.Subject != "" {
		q = q.Where("subject = ?", filter.Subject)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("title ASC").Limit(filter.Limit).Offset(offset).Find(&books).Error
	return books, total, err
}

func (r *bookRepo) Update(ctx context.Context, b *model.Book) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *bookRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", id).Update("active", false).Error
}

func (r *bookRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", id).Update("active", true).Error
}

func (r *bookRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Book{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (r *bookRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (r *bookRepo) DB() *gorm.DB { return r.db }
