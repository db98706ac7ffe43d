package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	"github.com/yourusername/quizsetup-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessionTestRouter(t *testing.T) (*gin.Engine, *auth.TokenService, *entity.SessionContext) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	captured := &entity.SessionContext{}
	router := gin.New()
	router.Use(NewSessionMiddleware(tokens).RequireSession())
	router.GET("/probe", func(c *gin.Context) {
		sess, ok := SessionFromContext(c)
		require.True(t, ok)
		*captured = sess
		c.Status(http.StatusNoContent)
	})
	return router, tokens, captured
}

func TestRequireSession_InjectsSessionContext(t *testing.T) {
	router, tokens, captured := newSessionTestRouter(t)

	token, err := tokens.Issue("guest:abc", "Guest", "", true)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "guest:abc", captured.Subject)
	assert.True(t, captured.Guest)
}

func TestRequireSession_Rejections(t *testing.T) {
	router, _, _ := newSessionTestRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
