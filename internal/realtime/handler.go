// File: internal/realtime/handler.go
package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/auth"
	"marketplace_admin_backend/internal/common"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Ticket auth already binds the connection to a staff session; the CORS
	// layer governs which origins reach the endpoint at all.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades dashboard websocket connections.
type Handler struct {
	hub     *Hub
	tickets auth.TicketService
	logger  *zap.Logger
}

// NewHandler creates a new realtime handler.
func NewHandler(hub *Hub, tickets auth.TicketService, logger *zap.Logger) *Handler {
	return &Handler{
		hub:     hub,
		tickets: tickets,
		logger:  logger,
	}
}

// RegisterRoutes sets up the websocket route. Authentication happens via the
// ticket query parameter rather than middleware because websocket dials from
// browsers cannot carry an Authorization header.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", h.serveWS)
}

func (h *Handler) serveWS(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("A websocket ticket is required."))
		return
	}

	claims, err := h.tickets.ValidateTicket(ticket)
	if err != nil {
		h.logger.Warn("Websocket ticket validation failed", zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired websocket ticket."))
		return
	}
	if claims.Role != common.RoleAdmin {
		common.RespondWithError(c, common.ErrForbidden.WithDetails("The change feed is restricted to staff."))
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid websocket ticket subject."))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	h.logger.Info("Websocket client connected", zap.String("userID", userID.String()))
	client := NewClient(conn, h.hub, userID, h.logger)
	client.Run()
}
