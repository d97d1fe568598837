// File: internal/verification/handler.go
package verification

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/middleware"
)

// Handler struct holds dependencies for verification handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new verification handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for verification review. All routes are
// staff-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	verificationGroup := router.Group("/verifications")
	verificationGroup.Use(authMW, adminRoleMW)
	{
		verificationGroup.GET("", h.listVerifications)
		verificationGroup.GET("/recent", h.recentVerifications)
		verificationGroup.GET("/:id", h.getVerification)
		verificationGroup.GET("/:id/documents", h.getDocuments)
		verificationGroup.POST("/:id/approve", h.approveVerification)
		verificationGroup.POST("/:id/deny", h.denyVerification)
	}
}

func (h *Handler) listVerifications(c *gin.Context) {
	status := c.Query("status")
	page, pageSize := common.GetPaginationParams(c)

	responses, pagination, err := h.service.List(c.Request.Context(), status, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Verification requests retrieved successfully.", responses, pagination)
}

func (h *Handler) recentVerifications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Limit must be a positive integer."))
			return
		}
		limit = parsed
	}

	responses, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Recent verification requests retrieved successfully.", responses)
}

func (h *Handler) getVerification(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	response, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Verification request retrieved successfully.", response)
}

func (h *Handler) getDocuments(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	response, err := h.service.Documents(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Document links generated successfully.", response)
}

func (h *Handler) approveVerification(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	reviewerID := middleware.GetUserIDFromContext(c)
	if reviewerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Reviewer identity missing."))
		return
	}

	response, err := h.service.Approve(c.Request.Context(), id, reviewerID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Verification request approved successfully.", response)
}

func (h *Handler) denyVerification(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	reviewerID := middleware.GetUserIDFromContext(c)
	if reviewerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Reviewer identity missing."))
		return
	}

	var req DenyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Deny verification: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	response, err := h.service.Deny(c.Request.Context(), id, reviewerID, req.Reason)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Verification request denied successfully.", response)
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	paramID := c.Param("id")
	id, err := uuid.Parse(paramID)
	if err != nil {
		h.logger.Warn("Invalid verification ID format in URL parameter", zap.String("paramID", paramID), zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid verification request ID format."))
		return uuid.Nil, false
	}
	return id, true
}
