package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenRegisterRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount" validate:"min=0"`
	Notes         *string         `json:"notes"`
}

type CloseRegisterRequest struct {
	FinalAmount decimal.Decimal `json:"final_amount" validate:"min=0"`
	Notes       *string         `json:"notes"`
}

type WithdrawalRequest struct {
	RegisterID string          `json:"register_id" validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Reason     string          `json:"reason"      validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type WithdrawalResponse struct {
	ID           string          `json:"id"`
	RegisterID   string          `json:"register_id"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
	OperatorName string          `json:"operator_name"`
	CreatedAt    string          `json:"created_at"`
}

type RegisterResponse struct {
	ID             string           `json:"id"`
	Status         string           `json:"status"`
	InitialAmount  decimal.Decimal  `json:"initial_amount"`
	FinalAmount    *decimal.Decimal `json:"final_amount"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	Notes          *string          `json:"notes"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       *string          `json:"closed_at"`
	Transactions   int              `json:"transactions"`
	Withdrawals    int              `json:"withdrawals"`
}

// RegisterReportResponse breaks a session down for the dashboard.
type RegisterReportResponse struct {
	RegisterID       string                     `json:"register_id"`
	Status           string                     `json:"status"`
	InitialAmount    decimal.Decimal            `json:"initial_amount"`
	TransactionTotal decimal.Decimal            `json:"transaction_total"`
	WithdrawalTotal  decimal.Decimal            `json:"withdrawal_total"`
	CurrentBalance   decimal.Decimal            `json:"current_balance"`
	ByMethod         map[string]decimal.Decimal `json:"by_method"`
	SaleCount        int64                      `json:"sale_count"`
	ExchangeCount    int64                      `json:"exchange_count"`
	ReturnCount      int64                      `json:"return_count"`
	OpenedAt         string                     `json:"opened_at"`
	ClosedAt         *string                    `json:"closed_at"`
}

type RegisterHistoryResponse struct {
	Data  []RegisterResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
