package handler

import (
	"net/http"

	"bookpos/internal/apierror"
	"bookpos/internal/dto"
	"bookpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct{ svc service.InventoryService }

func NewBookHandler(svc service.InventoryService) *BookHandler { return &BookHandler{svc: svc} }

// Create godoc
// @Summary Register a book in the catalog
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateBookRequest true "Book data"
// @Success 201 {object} dto.BookResponse
// @Failure 422 {object} apierror.ValidationResponse
// @Router /v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid book id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List supports title/author/subject filters plus pagination.
func (h *BookHandler) List(c *gin.Context) {
	var filter dto.BookFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid book id"))
		return
	}
	var req dto.UpdateBookRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate soft-deletes: the book disappears from listings but history keeps
// pointing at it.
func (h *BookHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid book id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid book id"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary Manual stock correction (damage, recount, donation intake)
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param body body dto.AdjustStockRequest true "Signed delta and reason"
// @Success 200 {object} dto.BookResponse
// @Failure 409 {object} apierror.Response "would drive stock negative"
// @Router /v1/books/{id}/stock [post]
func (h *BookHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.New(apierror.KindValidationFailed, "invalid book id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
