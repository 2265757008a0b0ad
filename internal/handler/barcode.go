package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Short TTL: quantities change with every sale, so a scan may briefly show a
// stale count. Prices are what matter at the scanner.
const scanCacheTTL = 5 * time.Minute

// BarcodeHandler serves the scanner hot path at the till. Read-only,
// no side effects.
type BarcodeHandler struct {
	repo repository.BookRepository
	rdb  *redis.Client
}

func NewBarcodeHandler(repo repository.BookRepository, rdb *redis.Client) *BarcodeHandler {
	return &BarcodeHandler{repo: repo, rdb: rdb}
}

// Scan godoc
// @Summary Look up a book by barcode
// @Tags books
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} dto.ScanResponse
// @Failure 404 {object} apierror.Response
// @Router /v1/scan/{barcode} [get]
func (h *BarcodeHandler) Scan(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := "scan:" + barcode

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ScanResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	book, err := h.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		respondError(c, apierror.New(apierror.KindNotFound, "book not found"))
		return
	}

	resp := dto.ScanResponse{
		BookID:    book.ID.String(),
		Title:     book.Title,
		Author:    book.Author,
		SalePrice: book.SalePrice,
		Quantity:  book.Quantity,
	}

	// Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, scanCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
