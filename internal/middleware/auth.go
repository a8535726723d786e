package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/dto"
	authjwt "github.com/inquizitive-iiitdwd/inquizitive.web/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token; the Authorization header works as
// a fallback for non-browser clients.
const SessionCookie = "session_token"

type SessionChecker interface {
	IsSessionRevoked(ctx context.Context, jti string) (bool, error)
}

func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func setClaims(c *gin.Context, token string, claims *authjwt.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
	c.Set("jti", claims.JTI)
	c.Set("session_token", token)
}

// SessionAuth requires a valid, unrevoked session token.
func SessionAuth(jwtSecret string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			dto.JsonError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := authjwt.ValidateSessionToken(token, jwtSecret)
		if err != nil {
			dto.JsonError(c, http.StatusUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		revoked, err := sessions.IsSessionRevoked(c.Request.Context(), claims.JTI)
		if err != nil {
			dto.JsonError(c, http.StatusInternalServerError, "Failed to validate session")
			c.Abort()
			return
		}
		if revoked {
			dto.JsonError(c, http.StatusUnauthorized, "Session has been revoked")
			c.Abort()
			return
		}

		setClaims(c, token, claims)
		c.Next()
	}
}

// OptionalSessionAuth attaches claims when a valid session is present but
// lets anonymous requests through. The websocket upgrade uses it: organizers
// carry a session, participants join with an access code instead.
func OptionalSessionAuth(jwtSecret string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := authjwt.ValidateSessionToken(token, jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		if revoked, err := sessions.IsSessionRevoked(c.Request.Context(), claims.JTI); err != nil || revoked {
			c.Next()
			return
		}

		setClaims(c, token, claims)
		c.Next()
	}
}

// RequireRoles allows only the listed roles past. Must run after SessionAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		dto.JsonError(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}
