package service_test

import (
	"context"
	"testing"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeCreateThenCancel(t *testing.T) {
	store := newMemStore()
	registerSvc, _, exchangeSvc := newCheckout(store)
	openSession(t, registerSvc, 100)

	returned := store.addBook("Returned Copy", 20, 25, 0)
	replacement := store.addBook("Replacement", 22, 28, 2)

	resp, err := exchangeSvc.Create(context.Background(), testStation(), dto.CreateExchangeRequest{
		ReturnedBookID: returned.ID.String(),
		NewBookID:      replacement.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeExchange, resp.Type)
	assert.Equal(t, 1, store.books[returned.ID].Quantity)
	assert.Equal(t, 1, store.books[replacement.ID].Quantity)

	// Cancel replays the exact inverse: quantities return to where they started
	// and the row disappears.
	err = exchangeSvc.Cancel(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, store.books[returned.ID].Quantity)
	assert.Equal(t, 2, store.books[replacement.ID].Quantity)
	assert.Empty(t, store.transactions)
}

func TestExchangeCreateOutOfStock(t *testing.T) {
	store := newMemStore()
	registerSvc, _, exchangeSvc := newCheckout(store)
	openSession(t, registerSvc, 100)

	returned := store.addBook("Returned Copy", 20, 25, 0)
	replacement := store.addBook("Sold Out", 22, 28, 0)

	_, err := exchangeSvc.Create(context.Background(), testStation(), dto.CreateExchangeRequest{
		ReturnedBookID: returned.ID.String(),
		NewBookID:      replacement.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Equal(t, 0, store.books[returned.ID].Quantity)
}

func TestExchangeCreateWithPriceDifference(t *testing.T) {
	store := newMemStore()
	registerSvc, _, exchangeSvc := newCheckout(store)
	registerID := openSession(t, registerSvc, 100)

	returned := store.addBook("Cheap Book", 10, 12, 0)
	replacement := store.addBook("Pricier Book", 18, 22, 1)

	diff := decimal.NewFromFloat(10)
	method := model.MethodCash
	resp, err := exchangeSvc.Create(context.Background(), testStation(), dto.CreateExchangeRequest{
		ReturnedBookID:  returned.ID.String(),
		NewBookID:       replacement.ID.String(),
		PriceDifference: &diff,
		PaymentMethod:   &method,
	})
	require.NoError(t, err)
	assert.Equal(t, "10", resp.TotalAmount.String())
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, model.MethodCash, resp.Payments[0].Method)

	balance, err := registerSvc.CurrentBalance(context.Background(), registerID)
	require.NoError(t, err)
	assert.Equal(t, "110", balance.String())
}

func TestExchangeEditSwapsBooks(t *testing.T) {
	store := newMemStore()
	registerSvc, _, exchangeSvc := newCheckout(store)
	openSession(t, registerSvc, 100)

	origReturned := store.addBook("Original Returned", 20, 25, 0)
	origBook := store.addBook("Original Replacement", 22, 28, 1)
	newReturned := store.addBook("Corrected Returned", 20, 25, 0)
	newBook := store.addBook("Corrected Replacement", 24, 30, 1)

	created, err := exchangeSvc.Create(context.Background(), testStation(), dto.CreateExchangeRequest{
		ReturnedBookID: origReturned.ID.String(),
		NewBookID:      origBook.ID.String(),
	})
	require.NoError(t, err)

	edited, err := exchangeSvc.Edit(context.Background(), uuid.MustParse(created.ID), testStation(), dto.EditExchangeRequest{
		ReturnedBookID: newReturned.ID.String(),
		NewBookID:      newBook.ID.String(),
	})
	require.NoError(t, err)

	// Old effect fully reversed, new effect applied.
	assert.Equal(t, 0, store.books[origReturned.ID].Quantity)
	assert.Equal(t, 1, store.books[origBook.ID].Quantity)
	assert.Equal(t, 1, store.books[newReturned.ID].Quantity)
	assert.Equal(t, 0, store.books[newBook.ID].Quantity)

	assert.Equal(t, newBook.ID.String(), edited.BookID)
	require.NotNil(t, edited.ReturnedBookID)
	assert.Equal(t, newReturned.ID.String(), *edited.ReturnedBookID)
}

func TestExchangeEditChecksReplacementStock(t *testing.T) {
	store := newMemStore()
	registerSvc, _, exchangeSvc := newCheckout(store)
	openSession(t, registerSvc, 100)

	origReturned := store.addBook("Original Returned", 20, 25, 0)
	origBook := store.addBook("Original Replacement", 22, 28, 1)
	soldOut := store.addBook("Sold Out Replacement", 24, 30, 0)

	created, err := exchangeSvc.Create(context.Background(), testStation(), dto.CreateExchangeRequest{
		ReturnedBookID: origReturned.ID.String(),
		NewBookID:      origBook.ID.String(),
	})
	require.NoError(t, err)

	_, err = exchangeSvc.Edit(context.Background(), uuid.MustParse(created.ID), testStation(), dto.EditExchangeRequest{
		ReturnedBookID: origReturned.ID.String(),
		NewBookID:      soldOut.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))

	// Pre-flight failed, so nothing moved.
	assert.Equal(t, 1, store.books[origReturned.ID].Quantity)
	assert.Equal(t, 0, store.books[origBook.ID].Quantity)
	assert.Equal(t, 0, store.books[soldOut.ID].Quantity)
}

func TestExchangeEditReplacesPayment(t *testing.T) {
	store := newMemStore()
	registerSvc, _, exchangeSvc := newCheckout(store)
	openSession(t, registerSvc, 100)

	returned := store.addBook("Returned", 10, 12, 0)
	replacement := store.addBook("Replacement", 18, 22, 2)

	diff := decimal.NewFromFloat(5)
	method := model.MethodCash
	created, err := exchangeSvc.Create(context.Background(), testStation(), dto.CreateExchangeRequest{
		ReturnedBookID:  returned.ID.String(),
		NewBookID:       replacement.ID.String(),
		PriceDifference: &diff,
		PaymentMethod:   &method,
	})
	require.NoError(t, err)

	newDiff := decimal.NewFromFloat(8)
	pix := model.MethodPix
	edited, err := exchangeSvc.Edit(context.Background(), uuid.MustParse(created.ID), testStation(), dto.EditExchangeRequest{
		ReturnedBookID:  returned.ID.String(),
		NewBookID:       replacement.ID.String(),
		PriceDifference: &newDiff,
		PaymentMethod:   &pix,
	})
	require.NoError(t, err)

	assert.Equal(t, "8", edited.TotalAmount.String())
	require.Len(t, edited.Payments, 1)
	assert.Equal(t, model.MethodPix, edited.Payments[0].Method)
	assert.Equal(t, "8", edited.Payments[0].Amount.String())
}

func TestCancelRejectsNonExchange(t *testing.T) {
	store := newMemStore()
	registerSvc, saleSvc, exchangeSvc := newCheckout(store)
	openSession(t, registerSvc, 100)
	book := store.addBook("Sold Book", 10, 12, 5)

	sale, err := saleSvc.CreateSale(context.Background(), testStation(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{BookID: book.ID.String(), Quantity: 1, ItemTotal: decimal.NewFromFloat(12)},
		},
		Payments: []dto.PaymentRequest{
			{Method: model.MethodCash, Amount: decimal.NewFromFloat(12)},
		},
	})
	require.NoError(t, err)

	err = exchangeSvc.Cancel(context.Background(), uuid.MustParse(sale.Transactions[0].ID))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidationFailed, apierror.KindOf(err))
}

func TestCancelUnknownExchange(t *testing.T) {
	store := newMemStore()
	registerSvc, _, exchangeSvc := newCheckout(store)
	openSession(t, registerSvc, 100)

	err := exchangeSvc.Cancel(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
