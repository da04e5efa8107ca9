package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coin-admin-api/internal/model"
)

// SessionService is the session tracking surface the handler depends on.
type SessionService interface {
	Start(ctx context.Context, email string, signInAt *time.Time) (*model.Session, error)
	End(ctx context.Context, sessionID string, signOutAt *time.Time) (*model.Session, error)
	List(ctx context.Context, username string, latestOnly bool) ([]*model.Session, error)
}

// LoginsHandler serves the /logins routes.
type LoginsHandler struct {
	service SessionService
}

// NewLoginsHandler creates a new LoginsHandler instance.
func NewLoginsHandler(service SessionService) *LoginsHandler {
	return &LoginsHandler{service: service}
}

// RegisterRoutes mounts the login routes on a router group.
func (h *LoginsHandler) RegisterRoutes(router *gin.RouterGroup) {
	logins := router.Group("/logins")
	{
		logins.GET("", h.list)
		logins.POST("/start", h.start)
		logins.POST("/end", h.end)
	}
}

type startLoginRequest struct {
	Email    string     `json:"email" binding:"required"`
	SignInAt *time.Time `json:"signInAt"`
}

func (h *LoginsHandler) start(c *gin.Context) {
	var req startLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "email is required")
		return
	}

	session, err := h.service.Start(c.Request.Context(), req.Email, req.SignInAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type endLoginRequest struct {
	SessionID string     `json:"sessionId" binding:"required"`
	SignOutAt *time.Time `json:"signOutAt"`
}

func (h *LoginsHandler) end(c *gin.Context) {
	var req endLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "sessionId is required")
		return
	}

	session, err := h.service.End(c.Request.Context(), req.SessionID, req.SignOutAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *LoginsHandler) list(c *gin.Context) {
	latest := c.Query("latest") == "true"
	sessions, err := h.service.List(c.Request.Context(), c.Query("username"), latest)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
