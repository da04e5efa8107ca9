package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coin-admin-api/internal/model"
	"coin-admin-api/internal/service"
)

// EntryService is the ledger write path the handler depends on.
type EntryService interface {
	Create(ctx context.Context, in service.EntryInput) (*model.LedgerEntry, error)
	List(ctx context.Context, username, year, month string) ([]*model.LedgerEntry, error)
	Delete(ctx context.Context, id int64) error
}

// EntriesHandler serves the /entries routes.
type EntriesHandler struct {
	service EntryService
}

// NewEntriesHandler creates a new EntriesHandler instance.
func NewEntriesHandler(service EntryService) *EntriesHandler {
	return &EntriesHandler{service: service}
}

// RegisterRoutes mounts the ledger entry routes on a router group.
func (h *EntriesHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.GET("", h.list)
		entries.POST("", h.create)
		entries.DELETE("/:id", h.delete)
	}
}

type createEntryRequest struct {
	Username    string   `json:"username" binding:"required"`
	GameName    string   `json:"gameName" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Amount      float64  `json:"amount" binding:"required"`
	AmountFinal *float64 `json:"amountFinal"`
	Date        string   `json:"date"`
	CreatedBy   *string  `json:"createdBy"`
	Method      *string  `json:"method"`
}

func (h *EntriesHandler) create(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "username, gameName, type and amount are required")
		return
	}

	entry, err := h.service.Create(c.Request.Context(), service.EntryInput{
		Username:    req.Username,
		GameName:    req.GameName,
		Type:        req.Type,
		Amount:      req.Amount,
		AmountFinal: req.AmountFinal,
		Date:        req.Date,
		CreatedBy:   req.CreatedBy,
		Method:      req.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *EntriesHandler) list(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Query("username"), c.Query("year"), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *EntriesHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid entry id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}
