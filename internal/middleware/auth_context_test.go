package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/cache"
	"github.com/yusufsemlali/ft-transcendence/internal/middleware"
	"github.com/yusufsemlali/ft-transcendence/internal/security"
	"github.com/yusufsemlali/ft-transcendence/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *security.TokenIssuer {
	return security.NewTokenIssuer("test-secret-not-for-production", usecase.AccessTokenTTL)
}

// AuthContextを通した後のIdentityを取り出すhelper
func identityThrough(t *testing.T, authz string, tc *cache.TokenCache) middleware.Identity {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got middleware.Identity
	h := middleware.AuthContext(newTestIssuer(), tc)(func(c echo.Context) error {
		got = middleware.IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return got
}

func TestAuthContext_NoHeaderIsGuest(t *testing.T) {
	id := identityThrough(t, "", nil)

	assert.Equal(t, middleware.IdentityNone, id.Type)
	assert.Equal(t, "guest", id.Username)
	assert.Equal(t, "guest", id.Role)
	assert.Empty(t, id.UserID)
}

func TestAuthContext_ValidBearer(t *testing.T) {
	token, _, err := newTestIssuer().Issue("user-1", "session-1", "alice", "user", time.Now())
	require.NoError(t, err)

	id := identityThrough(t, "Bearer "+token, nil)

	assert.Equal(t, middleware.IdentityBearer, id.Type)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "session-1", id.SessionID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "user", id.Role)
}

// 無効tokenは401ではなくguestで通す（rejectしないのはここの方針）
func TestAuthContext_InvalidTokenIsGuest(t *testing.T) {
	id := identityThrough(t, "Bearer not-a-jwt", nil)
	assert.Equal(t, middleware.IdentityNone, id.Type)

	// Bearer以外のschemeも同様
	id = identityThrough(t, "Basic dXNlcjpwYXNz", nil)
	assert.Equal(t, middleware.IdentityNone, id.Type)
}

func TestAuthContext_CachePopulatedOnVerify(t *testing.T) {
	tc := cache.New(16, 1<<16)

	token, _, err := newTestIssuer().Issue("user-1", "session-1", "alice", "user", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, tc.Len())

	id := identityThrough(t, "Bearer "+token, tc)
	assert.Equal(t, middleware.IdentityBearer, id.Type)
	assert.Equal(t, 1, tc.Len())

	// 2回目はキャッシュ経由でも同じIdentity
	id = identityThrough(t, "Bearer "+token, tc)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "session-1", id.SessionID)
}

// 無効tokenはキャッシュに入らない
func TestAuthContext_InvalidTokenNotCached(t *testing.T) {
	tc := cache.New(16, 1<<16)

	identityThrough(t, "Bearer garbage", tc)
	assert.Equal(t, 0, tc.Len())
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guard := middleware.RequireAuth()(next)

	// Bearer Identityは通す
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxIdentityKey, middleware.Identity{Type: middleware.IdentityBearer, UserID: "user-1"})
	require.NoError(t, guard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// guestは401
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(middleware.CtxIdentityKey, middleware.Guest())
	require.NoError(t, guard(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"UNAUTHENTICATED"}`, rec.Body.String())

	// Identity未設定でも401（guest扱い）
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, guard(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityFrom_MissingIsGuest(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	id := middleware.IdentityFrom(c)
	assert.Equal(t, middleware.IdentityNone, id.Type)
}
