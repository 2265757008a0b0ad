package handler

import (
	"net/http"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExchangeHandler struct{ svc service.ExchangeService }

func NewExchangeHandler(svc service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{svc: svc}
}

// Create godoc
// @Summary Swap a returned book for a different one
// @Tags exchanges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateExchangeRequest true "Returned and replacement books"
// @Success 201 {object} dto.TransactionResponse
// @Failure 409 {object} apierror.Response "no open session / replacement out of stock"
// @Router /v1/exchanges [post]
func (h *ExchangeHandler) Create(c *gin.Context) {
	var req dto.CreateExchangeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), stationFromClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Edit godoc
// @Summary Rewrite an exchange, reversing the old stock effects first
// @Tags exchanges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exchange transaction ID"
// @Param body body dto.EditExchangeRequest true "Corrected exchange"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} apierror.Response
// @Failure 409 {object} apierror.Response "replacement out of stock"
// @Router /v1/exchanges/{id} [put]
func (h *ExchangeHandler) Edit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid transaction id"))
		return
	}
	var req dto.EditExchangeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Edit(c.Request.Context(), id, stationFromClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary Undo an exchange completely
// @Tags exchanges
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exchange transaction ID"
// @Success 200 {object} dto.CancelExchangeResponse
// @Failure 404 {object} apierror.Response
// @Router /v1/exchanges/{id} [delete]
func (h *ExchangeHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid transaction id"))
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CancelExchangeResponse{Success: true})
}
