// File: internal/listing/handler.go
package listing

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/middleware"
)

// Handler struct holds dependencies for listing handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new listing handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for listing moderation. All routes are
// staff-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	serviceGroup := router.Group("/services")
	serviceGroup.Use(authMW, adminRoleMW)
	{
		serviceGroup.GET("", h.listServices)
		serviceGroup.GET("/:id", h.getService)
		serviceGroup.PATCH("/:id/verification", h.toggleVerification)
	}
}

func (h *Handler) listServices(c *gin.Context) {
	filter := c.Query("filter")
	query := c.Query("q")
	page, pageSize := common.GetPaginationParams(c)

	result, pagination, err := h.service.List(c.Request.Context(), filter, query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Service listings retrieved successfully.", result, pagination)
}

func (h *Handler) getService(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	response, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Service listing retrieved successfully.", response)
}

func (h *Handler) toggleVerification(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	verifierID := middleware.GetUserIDFromContext(c)
	if verifierID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Verifier identity missing."))
		return
	}

	response, err := h.service.ToggleVerification(c.Request.Context(), id, verifierID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Service listing verification updated successfully.", response)
}

func (h *Handler) parseID(c *gin.Context) (int64, bool) {
	paramID := c.Param("id")
	id, err := strconv.ParseInt(paramID, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("Invalid listing ID format in URL parameter", zap.String("paramID", paramID))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid service listing ID format."))
		return 0, false
	}
	return id, true
}
