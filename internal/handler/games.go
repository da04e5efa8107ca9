package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coin-admin-api/internal/model"
)

// GameService is the game operations the handler depends on.
type GameService interface {
	Names(ctx context.Context, q string) ([]string, error)
	List(ctx context.Context, year, month string) ([]*model.GameSummary, error)
	Create(ctx context.Context, name string, coinsRecharged float64) (*model.Game, error)
	Update(ctx context.Context, id int64, coinsRecharged *float64, lastRechargeDate *string) (*model.Game, error)
	Delete(ctx context.Context, id int64) (*model.Game, error)
	RechargeHistory(ctx context.Context, id int64, year, month string) ([]*model.RechargeHistoryRow, error)
}

// GamesHandler serves the /games routes.
type GamesHandler struct {
	service GameService
}

// NewGamesHandler creates a new GamesHandler instance.
func NewGamesHandler(service GameService) *GamesHandler {
	return &GamesHandler{service: service}
}

// RegisterRoutes mounts the game routes on a router group.
func (h *GamesHandler) RegisterRoutes(router *gin.RouterGroup) {
	games := router.Group("/games")
	{
		games.GET("", h.list)
		games.POST("", h.create)
		games.PUT("/:id", h.update)
		games.DELETE("/:id", h.delete)
		games.GET("/:id/recharge-history", h.rechargeHistory)
	}
}

// list returns enriched game summaries, or bare names when a search
// query is present.
func (h *GamesHandler) list(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		names, err := h.service.Names(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, names)
		return
	}

	games, err := h.service.List(c.Request.Context(), c.Query("year"), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

type createGameRequest struct {
	Name           string   `json:"name" binding:"required"`
	CoinsRecharged *float64 `json:"coinsRecharged"`
}

func (h *GamesHandler) create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "name is required")
		return
	}

	coins := 0.0
	if req.CoinsRecharged != nil {
		coins = *req.CoinsRecharged
	}

	game, err := h.service.Create(c.Request.Context(), req.Name, coins)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

type updateGameRequest struct {
	CoinsRecharged   *float64 `json:"coinsRecharged"`
	LastRechargeDate *string  `json:"lastRechargeDate"`
}

func (h *GamesHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid game id")
		return
	}

	var req updateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	game, err := h.service.Update(c.Request.Context(), id, req.CoinsRecharged, req.LastRechargeDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GamesHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid game id")
		return
	}

	game, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GamesHandler) rechargeHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "invalid game id")
		return
	}

	rows, err := h.service.RechargeHistory(c.Request.Context(), id, c.Query("year"), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
