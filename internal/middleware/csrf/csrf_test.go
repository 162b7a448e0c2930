package csrf

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, cfg Config, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := Middleware(cfg)(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return rec, h(c)
}

func code(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected HTTPError, got %v", err)
	return he.Code
}

func TestMiddleware_SafeMethodIssuesToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec, err := serve(t, Config{}, req)
	require.NoError(t, err)

	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "XSRF-TOKEN", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.False(t, cookies[0].HttpOnly)
}

func TestMiddleware_UnsafeMethod(t *testing.T) {
	const token = "known-token"

	tests := []struct {
		name    string
		origin  string
		header  string
		wantErr int
	}{
		{name: "matching header", origin: "http://example.com", header: token},
		{name: "missing header", origin: "http://example.com", header: "", wantErr: http.StatusForbidden},
		{name: "wrong header", origin: "http://example.com", header: "other-token", wantErr: http.StatusForbidden},
		{name: "foreign origin", origin: "http://evil.test", header: token, wantErr: http.StatusForbidden},
		{name: "no origin", origin: "", header: token, wantErr: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://example.com/api/logout", nil)
			req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}

			rec, err := serve(t, Config{}, req)
			if tt.wantErr != 0 {
				assert.Equal(t, tt.wantErr, code(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}

func TestMiddleware_SkipPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	rec, err := serve(t, Config{SkipPaths: []string{"/api/login"}}, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestMiddleware_SessionCookies(t *testing.T) {
	cfg := Config{SessionCookies: []string{"accessToken", "refreshToken"}}

	anon := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec, err := serve(t, cfg, anon)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	withSession := httptest.NewRequest(http.MethodPost, "/token/refresh", nil)
	withSession.AddCookie(&http.Cookie{Name: "refreshToken", Value: "jwt"})
	_, err = serve(t, cfg, withSession)
	assert.Equal(t, http.StatusForbidden, code(t, err))
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, secureCompare("abc", "abc"))
	assert.False(t, secureCompare("abc", "abd"))
	assert.False(t, secureCompare("abc", "ab"))
	assert.False(t, secureCompare("", ""))
}
