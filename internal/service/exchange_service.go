package service

import (
	"context"
	"errors"
	"time"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/model"
	"bookpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExchangeService handles the swap workflows: create, edit, cancel.
// Edit and cancel replay the exact inverse of the recorded stock effects, so
// a create → cancel round trip leaves both books' quantities untouched.
type ExchangeService interface {
	Create(ctx context.Context, station StationContext, req dto.CreateExchangeRequest) (*dto.TransactionResponse, error)
	Edit(ctx context.Context, id uuid.UUID, station StationContext, req dto.EditExchangeRequest) (*dto.TransactionResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type exchangeService struct {
	txRepo   repository.TransactionRepository
	bookRepo repository.BookRepository
	register RegisterService
}

func NewExchangeService(
	txRepo repository.TransactionRepository,
	bookRepo repository.BookRepository,
	register RegisterService,
) ExchangeService {
	return &exchangeService{txRepo: txRepo, bookRepo: bookRepo, register: register}
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *exchangeService) Create(ctx context.Context, station StationContext, req dto.CreateExchangeRequest) (*dto.TransactionResponse, error) {
	session, err := s.register.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}

	returnedID, err := uuid.Parse(req.ReturnedBookID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid returned_book_id")
	}
	newID, err := uuid.Parse(req.NewBookID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid new_book_id")
	}

	if _, err := s.bookRepo.FindByID(ctx, returnedID); err != nil {
		return nil, apierror.New(apierror.KindNotFound, "returned book not found")
	}
	newBook, err := s.bookRepo.FindByID(ctx, newID)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "new book not found")
	}
	if newBook.Quantity < 1 {
		return nil, apierror.New(apierror.KindInsufficientStock, "new book is out of stock")
	}

	total := decimal.Zero
	if req.PriceDifference != nil {
		total = *req.PriceDifference
	}

	var created model.Transaction
	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		// The returned copy goes back on the shelf; the new one leaves it.
		if err := s.bookRepo.AdjustStockTx(tx, returnedID, 1); err != nil {
			return err
		}
		if err := s.bookRepo.AdjustStockTx(tx, newID, -1); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return apierror.New(apierror.KindInsufficientStock, "new book is out of stock")
			}
			return err
		}

		created = model.Transaction{
			Type:            model.TypeExchange,
			BookID:          newID,
			ReturnedBookID:  &returnedID,
			Quantity:        1,
			TotalAmount:     total,
			PriceDifference: req.PriceDifference,
			TransactionDate: middayUTC(time.Now().UTC()),
			OperatorName:    station.OperatorName,
			StationID:       station.StationID,
			CashRegisterID:  session.ID,
		}
		if req.PaymentMethod != nil && total.IsPositive() {
			created.Payments = []model.Payment{{Method: *req.PaymentMethod, Amount: total}}
		}
		return s.txRepo.CreateTx(tx, &created)
	})
	if txErr != nil {
		return nil, apierror.Wrap(txErr, "exchange failed")
	}

	resp := txToResponse(&created)
	resp.BookTitle = newBook.Title
	return &resp, nil
}

// ── Edit ─────────────────────────────────────────────────────────────────────
// Reverses the original stock effect, applies the new one, then rewrites the
// row in place. The replacement book's availability IS re-checked before the
// decrement — an edit can fail with insufficient_stock.

func (s *exchangeService) Edit(ctx context.Context, id uuid.UUID, station StationContext, req dto.EditExchangeRequest) (*dto.TransactionResponse, error) {
	existing, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "exchange transaction not found")
	}
	if existing.Type != model.TypeExchange || existing.ReturnedBookID == nil {
		return nil, apierror.New(apierror.KindValidationFailed, "transaction is not an exchange")
	}

	newReturnedID, err := uuid.Parse(req.ReturnedBookID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid returned_book_id")
	}
	newBookID, err := uuid.Parse(req.NewBookID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid new_book_id")
	}

	if _, err := s.bookRepo.FindByID(ctx, newReturnedID); err != nil {
		return nil, apierror.New(apierror.KindNotFound, "returned book not found")
	}
	newBook, err := s.bookRepo.FindByID(ctx, newBookID)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "new book not found")
	}

	origReturnedID := *existing.ReturnedBookID
	origBookID := existing.BookID

	// Pre-flight availability of the replacement book, accounting for the
	// units the reversal itself will free up or consume.
	expected := newBook.Quantity
	if newBookID == origBookID {
		expected++
	}
	if newBookID == origReturnedID {
		expected--
	}
	if expected < 1 {
		return nil, apierror.New(apierror.KindInsufficientStock, "new book is out of stock")
	}

	// The original returned copy must still be on the shelf to take it back out.
	origReturned, err := s.bookRepo.FindByID(ctx, origReturnedID)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "original returned book not found")
	}
	if origReturned.Quantity < 1 && origReturnedID != newReturnedID {
		return nil, apierror.New(apierror.KindInsufficientStock, "original returned copy is no longer in stock")
	}

	date, err := businessDate(req.Date)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid date, expected YYYY-MM-DD")
	}

	total := decimal.Zero
	if req.PriceDifference != nil {
		total = *req.PriceDifference
	}

	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		// Reverse the original effect: the returned copy leaves the shelf
		// again, the originally sold book comes back.
		if err := s.bookRepo.AdjustStockTx(tx, origReturnedID, -1); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return apierror.New(apierror.KindInsufficientStock, "original returned copy is no longer in stock")
			}
			return err
		}
		if err := s.bookRepo.AdjustStockTx(tx, origBookID, 1); err != nil {
			return err
		}

		// Apply the new effect.
		if err := s.bookRepo.AdjustStockTx(tx, newReturnedID, 1); err != nil {
			return err
		}
		if err := s.bookRepo.AdjustStockTx(tx, newBookID, -1); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return apierror.New(apierror.KindInsufficientStock, "new book is out of stock")
			}
			return err
		}

		existing.BookID = newBookID
		existing.ReturnedBookID = &newReturnedID
		existing.TotalAmount = total
		existing.PriceDifference = req.PriceDifference
		existing.TransactionDate = date
		if station.OperatorName != "" {
			existing.OperatorName = station.OperatorName
		}

		// Replace the payment row to match the new price difference.
		if err := s.txRepo.DeletePaymentsTx(tx, existing.ID); err != nil {
			return err
		}
		existing.Payments = nil
		if req.PaymentMethod != nil && total.IsPositive() {
			existing.Payments = []model.Payment{{Method: *req.PaymentMethod, Amount: total}}
		}
		return s.txRepo.UpdateTx(tx, existing)
	})
	if txErr != nil {
		return nil, apierror.Wrap(txErr, "exchange edit failed")
	}

	resp := txToResponse(existing)
	resp.BookTitle = newBook.Title
	return &resp, nil
}

// ── Cancel ───────────────────────────────────────────────────────────────────
// Exact inverse of Create: the returned copy leaves the shelf, the exchanged
// book comes back, and the row (with its payments) disappears.

func (s *exchangeService) Cancel(ctx context.Context, id uuid.UUID) error {
	existing, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return apierror.New(apierror.KindNotFound, "exchange transaction not found")
	}
	if existing.Type != model.TypeExchange || existing.ReturnedBookID == nil {
		return apierror.New(apierror.KindValidationFailed, "transaction is not an exchange")
	}

	returnedID := *existing.ReturnedBookID
	bookID := existing.BookID

	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		if err := s.bookRepo.AdjustStockTx(tx, returnedID, -1); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return apierror.New(apierror.KindInsufficientStock, "returned copy is no longer in stock")
			}
			return err
		}
		if err := s.bookRepo.AdjustStockTx(tx, bookID, 1); err != nil {
			return err
		}
		return s.txRepo.DeleteTx(tx, id)
	})
	if txErr != nil {
		return apierror.Wrap(txErr, "exchange cancel failed")
	}
	return nil
}
