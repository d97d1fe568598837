// File: internal/dashboard/handler.go
package dashboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
)

// Handler exposes the dashboard stats endpoint.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the dashboard routes. Staff-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	dashboardGroup := router.Group("/dashboard")
	dashboardGroup.Use(authMW, adminRoleMW)
	{
		dashboardGroup.GET("/stats", h.getStats)
	}
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dashboard statistics retrieved successfully.", stats)
}
