// File: internal/auth/ticket.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/config"
)

// TicketClaims are the claims carried by a websocket ticket. Browsers cannot
// set an Authorization header on websocket dials, so the dashboard first
// exchanges its Firebase session for a short-lived ticket and passes it as a
// query parameter.
type TicketClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TicketService issues and validates short-lived websocket tickets.
type TicketService interface {
	IssueTicket(profileID uuid.UUID, role string) (token string, expiresAt time.Time, err error)
	ValidateTicket(token string) (*TicketClaims, error)
}

type hmacTicketService struct {
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

var _ TicketService = (*hmacTicketService)(nil)

// NewTicketService creates a ticket service signing with HS256.
func NewTicketService(cfg *config.Config, logger *zap.Logger) (TicketService, error) {
	if cfg.WSTicketSecret == "" {
		return nil, fmt.Errorf("websocket ticket secret is required")
	}
	return &hmacTicketService{
		secret: []byte(cfg.WSTicketSecret),
		ttl:    cfg.WSTicketTTL,
		logger: logger.Named("ticket_service"),
	}, nil
}

// IssueTicket signs a ticket for the given profile. Tickets are single-purpose
// and expire quickly; they never substitute for the Firebase session.
func (s *hmacTicketService) IssueTicket(profileID uuid.UUID, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := TicketClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to sign websocket ticket", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to sign websocket ticket: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateTicket parses and verifies a ticket, rejecting unexpected signing
// methods and expired tokens.
func (s *hmacTicketService) ValidateTicket(tokenString string) (*TicketClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TicketClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid websocket ticket: %w", err)
	}

	claims, ok := token.Claims.(*TicketClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid websocket ticket claims")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("invalid websocket ticket subject: %w", err)
	}
	return claims, nil
}
