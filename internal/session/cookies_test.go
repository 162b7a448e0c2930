package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/voting_auth/internal/tokens"
)

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func testPair(now time.Time) *tokens.Pair {
	mk := func(value string, exp time.Time) *tokens.Token {
		c := &tokens.Claims{}
		c.ExpiresAt = jwt.NewNumericDate(exp)
		return &tokens.Token{Value: value, Claims: c}
	}
	return &tokens.Pair{
		Access:  mk("access-value", now.Add(15*time.Minute)),
		Refresh: mk("refresh-value", now.Add(7*24*time.Hour)),
	}
}

func TestAttach_ScopesCookies(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/login", nil), rec)

	now := time.Now().Truncate(time.Second)
	New(true).Attach(c, testPair(now))

	cookies := cookiesByName(rec)
	require.Contains(t, cookies, AccessCookie)
	require.Contains(t, cookies, RefreshCookie)

	access := cookies[AccessCookie]
	assert.Equal(t, "access-value", access.Value)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.WithinDuration(t, now.Add(15*time.Minute), access.Expires, time.Second)

	refresh := cookies[RefreshCookie]
	assert.Equal(t, "refresh-value", refresh.Value)
	assert.Equal(t, "/token/refresh", refresh.Path)
	assert.True(t, refresh.HttpOnly)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), refresh.Expires, time.Second)
}

func TestAttach_InsecureForDevelopment(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/login", nil), rec)

	New(false).Attach(c, testPair(time.Now()))

	for _, ck := range rec.Result().Cookies() {
		assert.False(t, ck.Secure, ck.Name)
		assert.True(t, ck.HttpOnly, ck.Name)
	}
}

func TestDetach_ClearsBothOnTheirPaths(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/logout", nil), rec)

	New(true).Detach(c)

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 2)
	assert.Equal(t, "/", cookies[AccessCookie].Path)
	assert.Equal(t, "/token/refresh", cookies[RefreshCookie].Path)
	for _, ck := range cookies {
		assert.Empty(t, ck.Value)
		assert.Equal(t, -1, ck.MaxAge)
	}
}

func TestExtract(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/token/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "r"})
	c := e.NewContext(req, httptest.NewRecorder())

	tr := New(true)
	assert.Equal(t, "r", tr.Extract(c, tokens.KindRefresh))
	assert.Equal(t, "", tr.Extract(c, tokens.KindAccess))
}
