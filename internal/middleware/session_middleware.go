package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	"github.com/yourusername/quizsetup-api/pkg/auth"
)

const sessionContextKey = "session_context"

// SessionMiddleware turns the bearer token into an explicit SessionContext
// for downstream handlers. Components never read ambient auth state; they
// receive the context value extracted here.
type SessionMiddleware struct {
	tokens *auth.TokenService
}

// NewSessionMiddleware creates the middleware.
func NewSessionMiddleware(tokens *auth.TokenService) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// RequireSession rejects requests without a valid session token and injects
// the SessionContext for the ones that carry it. Guest sessions pass this
// check — guests are full participants of the configuration workflow.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		claims, err := m.tokens.Parse(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, entity.SessionContext{
			Subject: claims.Subject,
			Name:    claims.Name,
			Email:   claims.Email,
			Guest:   claims.Guest,
		})
		c.Next()
	}
}

// SessionFromContext returns the SessionContext injected by RequireSession.
func SessionFromContext(c *gin.Context) (entity.SessionContext, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return entity.SessionContext{}, false
	}
	sess, ok := value.(entity.SessionContext)
	return sess, ok
}
