package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

func newTestService(t *testing.T) *TokenService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))
	return &TokenService{
		DB:            db,
		JWTSecret:     []byte("test_secret"),
		RefreshSecret: []byte("test_refresh"),
	}
}

func TestRotateToken(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, "customer", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "customer"))

	access, newRefresh, claims, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, newRefresh)
	require.NotEqual(t, refresh, newRefresh)
	require.EqualValues(t, 7, claims["sub"])
	require.Equal(t, "customer", claims["role"])

	parsed, err := jwt.Parse(access, func(j *jwt.Token) (interface{}, error) {
		return svc.JWTSecret, nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
}

func TestRotateTokenRejectsUnknown(t *testing.T) {
	svc := newTestService(t)

	// valid signature but never persisted
	refresh, err := SignRefreshToken(7, "customer", svc.RefreshSecret)
	require.NoError(t, err)

	_, _, _, err = svc.RotateToken(refresh)
	require.Error(t, err)
}

func TestRotateTokenRejectsRevoked(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, "customer", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "customer"))
	require.NoError(t, svc.DB.Model(&models.RefreshToken{}).
		Where("token = ?", refresh).Update("revoked", true).Error)

	_, _, _, err = svc.RotateToken(refresh)
	require.Error(t, err)
}

func TestRotateTokenRejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	// an access token signed with the refresh secret still lacks typ=refresh
	access, err := SignAccessToken(7, "customer", svc.RefreshSecret)
	require.NoError(t, err)

	_, _, _, err = svc.RotateToken(access)
	require.Error(t, err)
}

func TestAutoRefreshMiddlewareSetsContext(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	access, err := SignAccessToken(7, "admin", svc.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(NewCookie("accessToken", access, time.Now().Add(AccessTTL)))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := svc.AutoRefreshMiddleware(func(c echo.Context) error {
		called = true
		require.Equal(t, uint(7), c.Get("userID"))
		require.Equal(t, "admin", c.Get("role"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	require.True(t, called)
}

func TestAutoRefreshMiddlewareNoCookies(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := svc.AutoRefreshMiddleware(func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})
	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("role", "customer")
	err := RequireAdmin(next)(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.Code)

	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("role", "admin")
	require.NoError(t, RequireAdmin(next)(c))
	require.Equal(t, http.StatusOK, rec.Code)
}
