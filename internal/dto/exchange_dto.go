package dto

import "github.com/shopspring/decimal"

type CreateExchangeRequest struct {
	ReturnedBookID  string           `json:"returned_book_id" validate:"required,uuid"`
	NewBookID       string           `json:"new_book_id"      validate:"required,uuid"`
	PriceDifference *decimal.Decimal `json:"price_difference"`
	PaymentMethod   *string          `json:"payment_method"   validate:"omitempty,oneof=credit_card debit_card cash pix exchange"`
}

type EditExchangeRequest struct {
	ReturnedBookID  string           `json:"returned_book_id" validate:"required,uuid"`
	NewBookID       string           `json:"new_book_id"      validate:"required,uuid"`
	PriceDifference *decimal.Decimal `json:"price_difference"`
	PaymentMethod   *string          `json:"payment_method"   validate:"omitempty,oneof=credit_card debit_card cash pix exchange"`
	Date            string           `json:"date"             validate:"omitempty,datetime=2006-01-02"`
}

type CancelExchangeResponse struct {
	Success bool `json:"success"`
}
