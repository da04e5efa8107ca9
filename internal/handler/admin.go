package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-admin-api/internal/model"
	"coin-admin-api/internal/service"
)

// RosterService is the reconciliation engine surface the handler
// depends on. User ids may be numeric or virtual:<name>.
type RosterService interface {
	ListUsers(ctx context.Context, status string) ([]*model.UserSummary, error)
	Approve(ctx context.Context, id string) (*model.UserAccount, error)
	Block(ctx context.Context, id string) (*model.UserAccount, error)
	Delete(ctx context.Context, id string) (*service.PurgeResult, error)
}

// AdminHandler serves the /admin/users routes.
type AdminHandler struct {
	service RosterService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(service RosterService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes mounts the admin routes on a router group.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.GET("/users", h.listUsers)
		admin.PATCH("/users/:id/approve", h.approve)
		admin.PATCH("/users/:id/block", h.block)
		admin.DELETE("/users/:id", h.delete)
	}
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) approve(c *gin.Context) {
	user, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) block(c *gin.Context) {
	user, err := h.service.Block(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
