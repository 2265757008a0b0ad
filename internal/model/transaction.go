package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types. Returns are a first-class case, not a negative exchange:
// a "return" row carries only BookID (the book coming back) while "exchange"
// rows are the only ones with a ReturnedBookID.
const (
	TypeSale     = "sale"
	TypeExchange = "exchange"
	TypeReturn   = "return"
)

// Payment methods.
const (
	MethodCreditCard = "credit_card"
	MethodDebitCard  = "debit_card"
	MethodCash       = "cash"
	MethodPix        = "pix"
	MethodExchange   = "exchange"
)

// Transaction is an append-only ledger entry belonging to one CashRegister.
// Rows are created by the sale/exchange/return workflows, updated only by the
// exchange-edit workflow, and deleted only by exchange-cancel (which first
// replays the inverse stock effects).
//
// Sign convention: TotalAmount is negative for returns, so summing a
// register's transactions yields its balance delta directly. Payment.Amount
// stays positive for receipt display — do not assume the two share sign.
type Transaction struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type string    `gorm:"type:varchar(20);not null;index"`
	// BookID is the book sold (sale), handed out (exchange) or taken back (return).
	BookID uuid.UUID `gorm:"type:uuid;not null;index"`
	// ReturnedBookID is set on exchanges only: the book the customer gave back.
	ReturnedBookID  *uuid.UUID       `gorm:"type:uuid;index"`
	Quantity        int              `gorm:"not null"`
	TotalAmount     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PriceDifference *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// TransactionDate is the business date, time pinned to 12:00 UTC so the
	// calendar day survives timezone rollover.
	TransactionDate time.Time `gorm:"index;not null"`
	OperatorName    string    `gorm:"not null"`
	StationID       string    `gorm:"type:varchar(40)"`
	// SaleGroupID correlates the line items of one multi-book checkout.
	SaleGroupID *uuid.UUID `gorm:"type:uuid;index"`
	// ReceiptNo comes from a Postgres sequence — monotonic receipt numbering.
	ReceiptNo      *int      `gorm:"uniqueIndex"`
	CashRegisterID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt      time.Time

	Book         *Book     `gorm:"foreignKey:BookID"`
	ReturnedBook *Book     `gorm:"foreignKey:ReturnedBookID"`
	Payments     []Payment `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

// Payment belongs to exactly one Transaction. For multi-item sales every
// payment of the checkout attaches to the group's FIRST transaction; use
// TransactionRepository.PaymentsBySaleGroup to resolve a group's full set.
type Payment struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID  uuid.UUID        `gorm:"type:uuid;index;not null"`
	Method         string           `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	AmountReceived *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Change         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt      time.Time
}
