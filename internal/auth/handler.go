// File: internal/auth/handler.go
package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/middleware"
)

// Handler exposes the websocket ticket exchange endpoint.
type Handler struct {
	tickets TicketService
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(tickets TicketService, logger *zap.Logger) *Handler {
	return &Handler{
		tickets: tickets,
		logger:  logger,
	}
}

// RegisterRoutes sets up the auth routes. Ticket issuance requires a valid
// Firebase session and the admin role, matching the websocket feed itself.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	authGroup.Use(authMW, adminRoleMW)
	{
		authGroup.POST("/ws-ticket", h.issueWSTicket)
	}
}

// WSTicketResponse is returned by the ticket exchange.
type WSTicketResponse struct {
	Ticket    string    `json:"ticket"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) issueWSTicket(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	role := middleware.GetUserRoleFromContext(c)

	ticket, expiresAt, err := h.tickets.IssueTicket(userID, role)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	h.logger.Debug("Issued websocket ticket", zap.String("userID", userID.String()))
	common.RespondCreated(c, "Websocket ticket issued successfully.", WSTicketResponse{
		Ticket:    ticket,
		ExpiresAt: expiresAt,
	})
}
