package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tourbook/internal/domain/authz"
	"tourbook/internal/domain/user"
	"tourbook/internal/handler/httperr"
	"tourbook/internal/pkg/cookie"
	"tourbook/internal/pkg/errs"
	"tourbook/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey       = "user_id"
	ctxUserRoleKey     = "user_role"
	ctxManageBookingID = "manage_booking_id"
	ctxManageEmailKey  = "manage_email"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func extractToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing token"), "Access token required", nil)
			return
		}

		userID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUserRoleKey, role)
		c.Next()
	}
}

// OptionalAuth authenticates the request if a token is present, but does not
// abort on failure. Guest booking endpoints run behind it: logged-in tourists
// get portal provenance, everyone else books anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUserRoleKey, role)
		c.Next()
	}
}

// ManageToken accepts a magic-link token from the manage_token query
// parameter and records the booking and email it proves. It never aborts;
// endpoints combine it with OptionalAuth so either credential works.
func (m *AuthMiddleware) ManageToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("manage_token")
		if token == "" {
			c.Next()
			return
		}

		bookingID, email, err := m.tokenValidator.ValidateManageToken(token)
		if err != nil {
			slog.Warn("Manage token validation failed", "error", err.Error())
			c.Next()
			return
		}

		c.Set(ctxManageBookingID, bookingID)
		c.Set(ctxManageEmailKey, email)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}

// CurrentActor assembles the scoping identity for this request: the
// authenticated user if present, otherwise an anonymous actor, either way
// carrying a magic-link email when one was proved.
func CurrentActor(c *gin.Context) authz.Actor {
	actor := authz.Anonymous()
	if id, ok := GetUserID(c); ok {
		if role, roleOK := GetUserRole(c); roleOK {
			actor = authz.Actor{ID: id, Role: role}
		}
	}

	if raw, exists := c.Get(ctxManageEmailKey); exists {
		if s, ok := raw.(string); ok {
			if email, err := user.NewEmail(s); err == nil {
				actor.Email = &email
			}
		}
	}
	return actor
}

// ManagedBookingID reports which booking the request's magic-link token was
// minted for, if any.
func ManagedBookingID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(ctxManageBookingID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}
