package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/model"
	"bookpos/internal/repository"
	"bookpos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService orchestrates the checkout workflows: bulk multi-item sales and
// single-book returns. Each workflow is one atomic unit — every read-check-write
// step commits together or not at all.
type SaleService interface {
	CreateSale(ctx context.Context, station StationContext, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	CreateReturn(ctx context.Context, station StationContext, req dto.CreateReturnRequest) (*dto.ReturnResponse, error)
	ListTransactions(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	SaleGroupPayments(ctx context.Context, groupID uuid.UUID) (*dto.SaleGroupPaymentsResponse, error)
}

type saleService struct {
	txRepo     repository.TransactionRepository
	bookRepo   repository.BookRepository
	register   RegisterService
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	txRepo repository.TransactionRepository,
	bookRepo repository.BookRepository,
	register RegisterService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		txRepo:     txRepo,
		bookRepo:   bookRepo,
		register:   register,
		dispatcher: dispatcher,
	}
}

// ── CreateSale ───────────────────────────────────────────────────────────────
// Atomic checkout:
//  1. Require an open register session
//  2. Validate EVERY line's stock before touching anything — a failure on item
//     k must not leave items 1..k-1 decremented
//  3. One shared sale group id for the request
//  4. Per line: guarded stock decrement + sale transaction row
//  5. All payments attach to the FIRST line's transaction
//  6. (async) enqueue receipt delivery — best effort, never fails the sale

func (s *saleService) CreateSale(ctx context.Context, station StationContext, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	session, err := s.register.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}

	date, err := businessDate(req.Date)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid date, expected YYYY-MM-DD")
	}

	// Pre-flight: resolve every book and check stock before any mutation.
	type resolvedItem struct {
		book     *model.Book
		quantity int
		total    dto.SaleItemRequest
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	requested := make(map[uuid.UUID]int, len(req.Items))
	for _, item := range req.Items {
		bookID, err := uuid.Parse(item.BookID)
		if err != nil {
			return nil, apierror.New(apierror.KindValidationFailed, "invalid book_id")
		}
		book, err := s.bookRepo.FindByID(ctx, bookID)
		if err != nil {
			return nil, apierror.New(apierror.KindNotFound, fmt.Sprintf("book %s not found", item.BookID))
		}
		// A book may appear on several lines of one sale — check the combined demand.
		requested[bookID] += item.Quantity
		if requested[bookID] > book.Quantity {
			return nil, apierror.New(apierror.KindInsufficientStock,
				fmt.Sprintf("insufficient stock for %q: requested %d, on hand %d", book.Title, requested[bookID], book.Quantity))
		}
		resolved = append(resolved, resolvedItem{book: book, quantity: item.Quantity, total: item})
	}

	groupID := uuid.New()
	var created []model.Transaction
	var firstReceiptNo int

	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		for i, r := range resolved {
			if err := s.bookRepo.AdjustStockTx(tx, r.book.ID, -r.quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					return apierror.New(apierror.KindInsufficientStock,
						fmt.Sprintf("insufficient stock for %q", r.book.Title))
				}
				return err
			}

			receiptNo, err := s.txRepo.NextReceiptNo(ctx, tx)
			if err != nil {
				return err
			}
			if i == 0 {
				firstReceiptNo = receiptNo
			}

			gid := groupID
			t := model.Transaction{
				Type:            model.TypeSale,
				BookID:          r.book.ID,
				Quantity:        r.quantity,
				TotalAmount:     r.total.ItemTotal,
				TransactionDate: date,
				OperatorName:    station.OperatorName,
				StationID:       station.StationID,
				SaleGroupID:     &gid,
				ReceiptNo:       &receiptNo,
				CashRegisterID:  session.ID,
			}
			// All payments of the checkout attach to the first line item.
			if i == 0 {
				for _, p := range req.Payments {
					t.Payments = append(t.Payments, model.Payment{
						Method:         p.Method,
						Amount:         p.Amount,
						AmountReceived: p.AmountReceived,
						Change:         p.Change,
					})
				}
			}
			if err := s.txRepo.CreateTx(tx, &t); err != nil {
				return err
			}
			created = append(created, t)
		}
		return nil
	})
	if txErr != nil {
		return nil, apierror.Wrap(txErr, "sale failed")
	}

	// Async receipt delivery — fire & forget.
	if s.dispatcher != nil && req.CustomerEmail != nil && *req.CustomerEmail != "" {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			SaleGroupID:   groupID.String(),
			CustomerEmail: *req.CustomerEmail,
			ReceiptNo:     firstReceiptNo,
		})
	}

	resp := &dto.SaleResponse{
		SaleGroupID:    groupID.String(),
		TotalItems:     len(created),
		FirstReceiptNo: firstReceiptNo,
	}
	for i := range created {
		tr := txToResponse(&created[i])
		tr.BookTitle = resolved[i].book.Title
		resp.Transactions = append(resp.Transactions, tr)
	}
	return resp, nil
}

// ── CreateReturn ─────────────────────────────────────────────────────────────
// A return puts one copy back on the shelf and refunds the cover price.
// The transaction total is NEGATIVE (so the register balance drops) while the
// payment amount stays positive for receipt display.

func (s *saleService) CreateReturn(ctx context.Context, station StationContext, req dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	session, err := s.register.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}

	bookID, err := uuid.Parse(req.ReturnedBookID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "invalid returned_book_id")
	}
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, apierror.New(apierror.KindNotFound, "book not found")
	}

	refund := book.CoverPrice
	negRefund := refund.Neg()
	zero := decimal.Zero

	var created model.Transaction
	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		if err := s.bookRepo.AdjustStockTx(tx, bookID, 1); err != nil {
			return err
		}
		created = model.Transaction{
			Type:            model.TypeReturn,
			BookID:          bookID,
			Quantity:        1,
			TotalAmount:     negRefund,
			PriceDifference: &negRefund,
			TransactionDate: middayUTC(time.Now().UTC()),
			OperatorName:    station.OperatorName,
			StationID:       station.StationID,
			CashRegisterID:  session.ID,
			Payments: []model.Payment{{
				Method: model.MethodExchange,
				Amount: refund,
				Change: &zero,
			}},
		}
		return s.txRepo.CreateTx(tx, &created)
	})
	if txErr != nil {
		return nil, apierror.Wrap(txErr, "return failed")
	}

	tr := txToResponse(&created)
	tr.BookTitle = book.Title
	return &dto.ReturnResponse{Transaction: tr}, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *saleService) ListTransactions(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	txs, total, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Wrap(err, "could not list transactions")
	}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, txToResponse(&txs[i]))
	}
	return &dto.TransactionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// SaleGroupPayments resolves a sale group to its full payment set, so callers
// never need to know payments hang off the group's first transaction.
func (s *saleService) SaleGroupPayments(ctx context.Context, groupID uuid.UUID) (*dto.SaleGroupPaymentsResponse, error) {
	payments, err := s.txRepo.PaymentsBySaleGroup(ctx, groupID)
	if err != nil {
		return nil, apierror.Wrap(err, "could not load payments")
	}
	if len(payments) == 0 {
		return nil, apierror.New(apierror.KindNotFound, "sale group not found")
	}
	resp := &dto.SaleGroupPaymentsResponse{SaleGroupID: groupID.String()}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.PaymentRequest{
			Method:         p.Method,
			Amount:         p.Amount,
			AmountReceived: p.AmountReceived,
			Change:         p.Change,
		})
		resp.Total = resp.Total.Add(p.Amount)
	}
	return resp, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func txToResponse(t *model.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:              t.ID.String(),
		Type:            t.Type,
		BookID:          t.BookID.String(),
		Quantity:        t.Quantity,
		TotalAmount:     t.TotalAmount,
		PriceDifference: t.PriceDifference,
		TransactionDate: t.TransactionDate.Format("2006-01-02"),
		OperatorName:    t.OperatorName,
		StationID:       t.StationID,
		ReceiptNo:       t.ReceiptNo,
		RegisterID:      t.CashRegisterID.String(),
	}
	if t.Book != nil {
		resp.BookTitle = t.Book.Title
	}
	if t.ReturnedBookID != nil {
		id := t.ReturnedBookID.String()
		resp.ReturnedBookID = &id
	}
	if t.SaleGroupID != nil {
		id := t.SaleGroupID.String()
		resp.SaleGroupID = &id
	}
	for _, p := range t.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentRequest{
			Method:         p.Method,
			Amount:         p.Amount,
			AmountReceived: p.AmountReceived,
			Change:         p.Change,
		})
	}
	return resp
}
