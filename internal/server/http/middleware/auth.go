package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kupfer451/poke-api/internal/domain/model"
	pkgAuth "github.com/kupfer451/poke-api/internal/pkg/auth"
	"github.com/kupfer451/poke-api/internal/server/http/dto"
)

const (
	// RequesterContextKey is a gin context key for the authenticated model.Requester.
	RequesterContextKey = "requester"
	authCookieName      = "poke_token"
)

// TokenParser resolves a bearer token into the identity it carries.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Claims, error)
}

// Authenticate attaches the requester identified by the bearer token or
// auth cookie. Requests without a valid token pass through anonymously.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.Next()
				return
			}
			abort(c, http.StatusInternalServerError, "token verification failed")
			return
		}

		c.Set(RequesterContextKey, model.Requester{
			UserID:  claims.UserID,
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
		})
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentRequester(c); !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-administrators with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := CurrentRequester(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !requester.IsAdmin {
			abort(c, http.StatusForbidden, "administrator access required")
			return
		}
		c.Next()
	}
}

// CurrentRequester returns the requester attached by Authenticate.
func CurrentRequester(c *gin.Context) (model.Requester, bool) {
	val, ok := c.Get(RequesterContextKey)
	if !ok {
		return model.Requester{}, false
	}
	requester, ok := val.(model.Requester)
	return requester, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: http.StatusText(status), Message: message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
