// File: internal/profile/handler.go
package profile

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/middleware"
)

// Handler struct holds dependencies for profile handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	profileGroup := router.Group("/profiles")
	profileGroup.Use(authMW)
	{
		profileGroup.GET("/me", h.getMe)
		// Admin-or-self, enforced in the handler rather than by a role middleware.
		profileGroup.GET("/:id", h.getProfileByID)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToProfileResponse(p))
}

func (h *Handler) getProfileByID(c *gin.Context) {
	paramID := c.Param("id")
	profileID, err := uuid.Parse(paramID)
	if err != nil {
		h.logger.Warn("Invalid profile ID format in URL parameter", zap.String("paramID", paramID), zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid profile ID format."))
		return
	}

	// Only admins may read other accounts.
	requesterID := middleware.GetUserIDFromContext(c)
	if requesterID != profileID && middleware.GetUserRoleFromContext(c) != common.RoleAdmin {
		common.RespondWithError(c, common.ErrForbidden)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), profileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToProfileResponse(p))
}
