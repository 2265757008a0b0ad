package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RegisterOpen   = "open"
	RegisterClosed = "closed"
)

// CashRegister represents one bounded cashier session.
// At most one register may be open at any time — enforced by the service-level
// guard AND a partial unique index on (status) WHERE status = 'open'.
// Registers transition open → closed exactly once and are never deleted.
type CashRegister struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status        string          `gorm:"type:varchar(20);not null;default:'open'"`
	InitialAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// FinalAmount is the counted amount declared when the register is closed.
	FinalAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes       *string
	OpenedAt    time.Time
	ClosedAt    *time.Time

	Transactions []Transaction    `gorm:"foreignKey:CashRegisterID"`
	Withdrawals  []CashWithdrawal `gorm:"foreignKey:CashRegisterID"`
}

// CashWithdrawal is an immutable cash-out event against an open register.
// Withdrawals are never edited or reversed.
type CashWithdrawal struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashRegisterID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason         string          `gorm:"not null"`
	OperatorName   string          `gorm:"not null"`
	StationID      string          `gorm:"type:varchar(40)"`
	CreatedAt      time.Time
}
