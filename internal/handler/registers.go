package handler

import (
	"net/http"
	"strconv"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegisterHandler struct {
	svc     service.RegisterService
	reports service.ReportService
}

func NewRegisterHandler(svc service.RegisterService, reports service.ReportService) *RegisterHandler {
	return &RegisterHandler{svc: svc, reports: reports}
}

// Open godoc
// @Summary Open the day's cash register session
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenRegisterRequest true "Opening float"
// @Success 201 {object} dto.RegisterResponse
// @Failure 409 {object} apierror.Response "a session is already open"
// @Router /v1/registers/open [post]
func (h *RegisterHandler) Open(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), stationFromClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetOpen returns the currently open session, or 404 when every register is closed.
func (h *RegisterHandler) GetOpen(c *gin.Context) {
	resp, err := h.svc.GetOpen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		respondError(c, apierror.New(apierror.KindNotFound, "no open cash register session"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary Close a cash register session with the counted final amount
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body dto.CloseRegisterRequest true "Counted cash"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.Response
// @Router /v1/registers/{id}/close [post]
func (h *RegisterHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid session id"))
		return
	}
	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Withdrawal godoc
// @Summary Record a cash withdrawal from the open session
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.WithdrawalRequest true "Amount and reason"
// @Success 201 {object} dto.WithdrawalResponse
// @Failure 409 {object} apierror.Response "session is not open"
// @Router /v1/registers/withdrawals [post]
func (h *RegisterHandler) Withdrawal(c *gin.Context) {
	var req dto.WithdrawalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordWithdrawal(c.Request.Context(), stationFromClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Report godoc
// @Summary Per-session breakdown: totals, payment methods, transaction counts
// @Tags registers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.RegisterReportResponse
// @Failure 404 {object} apierror.Response
// @Router /v1/registers/{id}/report [get]
func (h *RegisterHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid session id"))
		return
	}
	resp, err := h.reports.SessionReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns a paginated list of closed sessions.
func (h *RegisterHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.reports.History(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
