// Package web exposes the user with books aggregate over HTTP.
package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookshelf/apperr"
	"bookshelf/domain"
)

type Aggregates interface {
	CreateUserWithBooks(ctx context.Context, req *domain.UserBookRequest) (*domain.UserBookResponse, error)
	UpdateUserWithBooks(ctx context.Context, req *domain.UserBookRequest) (*domain.UserBookResponse, error)
	GetUserWithBooks(ctx context.Context, userID int64) (*domain.UserBookResponse, error)
	DeleteUserWithBooks(ctx context.Context, userID int64) error
}

type Handler struct {
	aggregates Aggregates
}

func NewHandler(aggregates Aggregates) *Handler {
	return &Handler{aggregates: aggregates}
}

func (h *Handler) CreateUserWithBooks(c *gin.Context) {
	var req domain.UserBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("Malformed request body: %s", err))
		return
	}
	resp, err := h.aggregates.CreateUserWithBooks(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (h *Handler) UpdateUserWithBooks(c *gin.Context) {
	var req domain.UserBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("Malformed request body: %s", err))
		return
	}
	resp, err := h.aggregates.UpdateUserWithBooks(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (h *Handler) GetUserWithBooks(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	resp, err := h.aggregates.GetUserWithBooks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// DeleteUserWithBooks answers 200 with an empty body.
func (h *Handler) DeleteUserWithBooks(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.aggregates.DeleteUserWithBooks(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func userIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("userId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(c, apperr.Validationf("userId must be a number, got %q", raw))
		return 0, false
	}
	return id, true
}
