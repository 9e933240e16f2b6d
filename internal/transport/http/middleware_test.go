package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomrelay/internal/session"
)

const testCookie = "roomrelay_session"

func newSessionRouter(tokens *session.TokenConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()

	router := gin.New()
	router.Use(SessionMiddleware(tokens, testCookie, time.Hour, &logger))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeySessionID))
	})
	return router
}

func TestSessionMiddlewareMintsSession(t *testing.T) {
	tokens := &session.TokenConfig{Secret: []byte("secret"), Issuer: "test", TTL: time.Hour}
	router := newSessionRouter(tokens)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	sid := rec.Body.String()
	require.NotEmpty(t, sid)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, testCookie, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	parsed, err := session.ParseToken(tokens, cookies[0].Value)
	require.NoError(t, err)
	require.Equal(t, sid, parsed)
}

func TestSessionMiddlewareTokenSources(t *testing.T) {
	tokens := &session.TokenConfig{Secret: []byte("secret"), Issuer: "test", TTL: time.Hour}
	router := newSessionRouter(tokens)

	bearer, err := session.IssueToken(tokens, "from-header")
	require.NoError(t, err)
	query, err := session.IssueToken(tokens, "from-query")
	require.NoError(t, err)
	cookie, err := session.IssueToken(tokens, "from-cookie")
	require.NoError(t, err)

	tests := []struct {
		name  string
		build func(r *http.Request)
		want  string
	}{
		{"header wins", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+bearer)
			r.URL.RawQuery = "token=" + query
			r.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
		}, "from-header"},
		{"query before cookie", func(r *http.Request) {
			r.URL.RawQuery = "token=" + query
			r.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
		}, "from-query"},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
		}, "from-cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.build(req)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Body.String())
			require.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestSessionMiddlewareReplacesInvalidToken(t *testing.T) {
	tokens := &session.TokenConfig{Secret: []byte("secret"), Issuer: "test", TTL: time.Hour}
	router := newSessionRouter(tokens)

	foreign, err := session.IssueToken(&session.TokenConfig{Secret: []byte("other"), Issuer: "test"}, "forged")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NotEqual(t, "forged", rec.Body.String())
	require.Len(t, rec.Result().Cookies(), 1)
}
