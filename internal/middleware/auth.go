// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/firebase"
	"marketplace_admin_backend/internal/shared"
)

const (
	// AuthorizationHeader is the header name for the authorization token.
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens.
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for the authenticated profile's ID.
	UserIDKey = "userID"
	// UserRoleKey is the context key for the authenticated profile's role.
	UserRoleKey = "userRole"
	// UserProfileKey stores the whole shared.Profile.
	UserProfileKey = "userProfile"
)

// AuthMiddleware verifies the Firebase ID token on every request and resolves
// the caller's profile, creating one on first contact. Handlers downstream
// read identity from the Gin context, never from the token.
func AuthMiddleware(fbService *firebase.FirebaseService, profiles shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := fbService.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("ID token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		profile, created, err := profiles.GetOrCreateFromFirebaseToken(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to resolve profile for authenticated user",
				zap.Error(err), zap.String("firebaseUID", token.UID))
			common.RespondWithError(c, err)
			return
		}
		if created {
			logger.Info("Provisioned profile on first authenticated request",
				zap.String("profileID", profile.ID.String()), zap.String("firebaseUID", token.UID))
		}

		c.Set(UserIDKey, profile.ID)
		c.Set(UserRoleKey, profile.Role)
		c.Set(UserProfileKey, profile)

		logger.Debug("User authenticated successfully",
			zap.String("userID", profile.ID.String()),
			zap.String("role", profile.Role),
		)

		c.Next()
	}
}

// GetUserIDFromContext retrieves the profile ID from the Gin context.
// Returns uuid.Nil if not found.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

// GetUserRoleFromContext retrieves the profile role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) string {
	val, exists := c.Get(UserRoleKey)
	if !exists {
		return ""
	}
	role, ok := val.(string)
	if !ok {
		return ""
	}
	return role
}

// GetUserProfileFromContext retrieves the full profile from the Gin context.
func GetUserProfileFromContext(c *gin.Context) *shared.Profile {
	val, exists := c.Get(UserProfileKey)
	if !exists {
		return nil
	}
	profile, ok := val.(*shared.Profile)
	if !ok {
		return nil
	}
	return profile
}

// RoleAuthMiddleware checks that the authenticated user holds one of the
// allowed roles. Must run after AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
