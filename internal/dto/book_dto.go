package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// BookFilter is bound from the query string of GET /v1/books.
type BookFilter struct {
	Title   string `form:"title"`
	Author  string `form:"author"`
	Subject string `form:"subject"`
	Barcode string `form:"barcode"`
	Active  string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateBookRequest struct {
	Code          string          `json:"code"           validate:"required,min=1"`
	Barcode       *string         `json:"barcode"`
	Title         string          `json:"title"          validate:"required,min=1"`
	Author        string          `json:"author"         validate:"required,min=1"`
	Publisher     string          `json:"publisher"`
	Subject       string          `json:"subject"`
	Medium        string          `json:"medium"`
	ShelfLocation string          `json:"shelf_location"`
	CoverPrice    decimal.Decimal `json:"cover_price"    validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
	Quantity      int             `json:"quantity"       validate:"min=0"`
}

type UpdateBookRequest struct {
	Barcode       *string          `json:"barcode"`
	Title         *string          `json:"title"          validate:"omitempty,min=1"`
	Author        *string          `json:"author"         validate:"omitempty,min=1"`
	Publisher     *string          `json:"publisher"`
	Subject       *string          `json:"subject"`
	Medium        *string          `json:"medium"`
	ShelfLocation *string          `json:"shelf_location"`
	CoverPrice    *decimal.Decimal `json:"cover_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BookResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Barcode       *string         `json:"barcode"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Publisher     string          `json:"publisher"`
	Subject       string          `json:"subject"`
	Medium        string          `json:"medium"`
	ShelfLocation string          `json:"shelf_location"`
	CoverPrice    decimal.Decimal `json:"cover_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Quantity      int             `json:"quantity"`
	Active        bool            `json:"active"`
}

type BookListResponse struct {
	Data  []BookResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ScanResponse is the barcode-scanner hot path payload (cached in Redis).
type ScanResponse struct {
	BookID    string          `json:"book_id"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Quantity  int             `json:"quantity"`
}
