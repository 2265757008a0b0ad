package service

import (
	"context"
	"errors"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/model"
	"bookpos/internal/repository"

	"github.com/google/uuid"
)

// InventoryService is the book catalog CRUD plus manual stock corrections.
// The checkout workflows never go through here — they use the guarded
// repository primitives directly inside their own transactions.
type InventoryService interface {
	Create(ctx context.Context, req dto.CreateBookRequest) (*dto.BookResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BookResponse, error)
	List(ctx context.Context, filter dto.BookFilter) (*dto.BookListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateBookRequest) (*dto.BookResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.BookResponse, error)
}

type inventoryService struct {
	repo repository.BookRepository
}

func NewInventoryService(repo repository.BookRepository) InventoryService {
	return &inventoryService{repo: repo}
}

func (s *inventoryService) Create(ctx context.Context, req dto.CreateBookRequest) (*dto.BookResponse, error) {
	book := &model.Book{
		Code:          req.Code,
		Barcode:       req.Barcode,
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		Subject:       req.Subject,
		Medium:        req.Medium,
		ShelfLocation: req.ShelfLocation,
		CoverPrice:    req.CoverPrice,
		SalePrice:     req.SalePrice,
		Quantity:      req.Quantity,
		Active:        true,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, apierror.Wrap(err, "could not create book")
	}
	return bookToResponse(book), nil
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*dto.BookResponse, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "book not found")
	}
	return bookToResponse(book), nil
}

func (s *inventoryService) List(ctx context.Context, filter dto.BookFilter) (*dto.BookListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Wrap(err, "could not list books")
	}
	items := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		items = append(items, *bookToResponse(&books[i]))
	}
	return &dto.BookListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateBookRequest) (*dto.BookResponse, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "book not found")
	}

	if req.Barcode != nil {
		book.Barcode = req.Barcode
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.Subject != nil {
		book.Subject = *req.Subject
	}
	if req.Medium != nil {
		book.Medium = *req.Medium
	}
	if req.ShelfLocation != nil {
		book.ShelfLocation = *req.ShelfLocation
	}
	if req.CoverPrice != nil {
		book.CoverPrice = *req.CoverPrice
	}
	if req.SalePrice != nil {
		book.SalePrice = *req.SalePrice
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, apierror.Wrap(err, "could not update book")
	}
	return bookToResponse(book), nil
}

func (s *inventoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.New(apierror.KindNotFound, "book not found")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apierror.Wrap(err, "could not deactivate book")
	}
	return nil
}

func (s *inventoryService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.New(apierror.KindNotFound, "book not found")
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return apierror.Wrap(err, "could not reactivate book")
	}
	return nil
}

// AdjustStock applies a manual correction. The same non-negative guard as the
// checkout path applies: a delta below the on-hand count is rejected.
func (s *inventoryService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.BookResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apierror.New(apierror.KindNotFound, "book not found")
	}
	if err := s.repo.AdjustStock(ctx, id, req.Delta); err != nil {
		if errors.Is(err, repository.ErrStockConflict) {
			return nil, apierror.New(apierror.KindInsufficientStock, "adjustment would make quantity negative")
		}
		return nil, apierror.Wrap(err, "could not adjust stock")
	}
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(err, "could not reload book")
	}
	return bookToResponse(book), nil
}

func bookToResponse(b *model.Book) *dto.BookResponse {
	return &dto.BookResponse{
		ID:            b.ID.String(),
		Code:          b.Code,
		Barcode:       b.Barcode,
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		Subject:       b.Subject,
		Medium:        b.Medium,
		ShelfLocation: b.ShelfLocation,
		CoverPrice:    b.CoverPrice,
		SalePrice:     b.SalePrice,
		Quantity:      b.Quantity,
		Active:        b.Active,
	}
}
