package handler

import (
	"net/http"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SaleHandler struct{ svc service.SaleService }

func NewSaleHandler(svc service.SaleService) *SaleHandler { return &SaleHandler{svc: svc} }

// CreateSale godoc
// @Summary Finalize a multi-item sale
// @Description All line items commit atomically: if any book lacks stock the
// @Description whole sale is rejected and nothing changes.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateSaleRequest true "Cart items and payments"
// @Success 201 {object} dto.SaleResponse
// @Failure 409 {object} apierror.Response "no open session / insufficient stock"
// @Failure 422 {object} apierror.ValidationResponse
// @Router /v1/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSale(c.Request.Context(), stationFromClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateReturn godoc
// @Summary Accept a standalone book return
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateReturnRequest true "Returned book"
// @Success 201 {object} dto.ReturnResponse
// @Failure 409 {object} apierror.Response "no open session"
// @Router /v1/returns [post]
func (h *SaleHandler) CreateReturn(c *gin.Context) {
	var req dto.CreateReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateReturn(c.Request.Context(), stationFromClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListTransactions returns the ledger for one business date (default today).
func (h *SaleHandler) ListTransactions(c *gin.Context) {
	var filter dto.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid query parameters"))
		return
	}
	resp, err := h.svc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaleGroupPayments godoc
// @Summary Payments recorded against one sale group
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sale group ID"
// @Success 200 {object} dto.SaleGroupPaymentsResponse
// @Failure 404 {object} apierror.Response
// @Router /v1/sales/{id}/payments [get]
func (h *SaleHandler) SaleGroupPayments(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid sale group id"))
		return
	}
	resp, err := h.svc.SaleGroupPayments(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
