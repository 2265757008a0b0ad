package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is a catalog entry with its on-hand quantity.
// Quantity is only ever mutated through guarded updates (see BookRepository)
// so it can never go below zero.
type Book struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code          string    `gorm:"uniqueIndex;not null"`
	Barcode       *string   `gorm:"uniqueIndex"`
	Title         string    `gorm:"index;not null"`
	Author        string    `gorm:"not null"`
	Publisher     string
	Subject       string `gorm:"index"`
	Medium        string
	ShelfLocation string
	CoverPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity      int             `gorm:"not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
