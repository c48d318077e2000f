package middleware

import (
	"net/http"
	"strings"

	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/auth"
	"campus-placement-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenVerifier validates an access token issued by the identity provider.
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// AuthMiddleware verifies the bearer token, loads (or creates) the local
// user and stores the caller on both the gin and the request context.
func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if header := c.GetHeader("Authorization"); header != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie("auth_token"); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			logger.Log.Debug("Token validation failed", "error", err, "request_id", c.GetString(response.RequestIDKey))
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		// The role comes from the local user record, never from token claims.
		user, err := authUC.ResolveUser(c.Request.Context(), identity.Subject, identity.Email)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		role := user.Role
		if role == "" {
			role = domain.RoleStudent
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyUserRole), role)
		c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), domain.Actor{UserID: user.ID, Role: role}))

		c.Next()
	}
}

// RoleMiddleware admits callers holding any of the listed roles.
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "Role not determined", nil)
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "Insufficient permissions", nil)
		c.Abort()
	}
}
