package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	BookID   string `json:"book_id"  validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	// ItemTotal is the line total as charged at the till (sale price × quantity,
	// possibly discounted by hand).
	ItemTotal decimal.Decimal `json:"item_total" validate:"min=0"`
}

type PaymentRequest struct {
	Method         string           `json:"method" validate:"required,oneof=credit_card debit_card cash pix exchange"`
	Amount         decimal.Decimal  `json:"amount" validate:"required"`
	AmountReceived *decimal.Decimal `json:"amount_received"`
	Change         *decimal.Decimal `json:"change"`
}

type CreateSaleRequest struct {
	Items    []SaleItemRequest `json:"items"    validate:"required,min=1,dive"`
	Payments []PaymentRequest  `json:"payments" validate:"required,min=1,dive"`
	// Date is the business calendar date (YYYY-MM-DD); the server pins the
	// time-of-day to midday. Empty = today.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	// CustomerEmail: when present, the receipt worker mails a PDF receipt.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type CreateReturnRequest struct {
	ReturnedBookID string `json:"returned_book_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionResponse struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	BookID          string           `json:"book_id"`
	BookTitle       string           `json:"book_title,omitempty"`
	ReturnedBookID  *string          `json:"returned_book_id,omitempty"`
	Quantity        int              `json:"quantity"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	PriceDifference *decimal.Decimal `json:"price_difference,omitempty"`
	TransactionDate string           `json:"transaction_date"`
	OperatorName    string           `json:"operator_name"`
	StationID       string           `json:"station_id"`
	SaleGroupID     *string          `json:"sale_group_id,omitempty"`
	ReceiptNo       *int             `json:"receipt_no,omitempty"`
	RegisterID      string           `json:"register_id"`
	Payments        []PaymentRequest `json:"payments,omitempty"`
}

type SaleResponse struct {
	Transactions   []TransactionResponse `json:"transactions"`
	SaleGroupID    string                `json:"sale_group_id"`
	TotalItems     int                   `json:"total_items"`
	FirstReceiptNo int                   `json:"first_receipt_no"`
}

type ReturnResponse struct {
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionFilter is bound from the query string of GET /v1/transactions.
type TransactionFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = today
	Type  string `form:"type"` // sale | exchange | return | all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type SaleGroupPaymentsResponse struct {
	SaleGroupID string           `json:"sale_group_id"`
	Payments    []PaymentRequest `json:"payments"`
	Total       decimal.Decimal  `json:"total"`
}
