package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/canteen/internal/config"
	"github.com/Skotchmaster/canteen/internal/repo"
	"github.com/Skotchmaster/canteen/internal/service"
)

func newTestAuthService(t *testing.T) *service.AuthService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	return &service.AuthService{
		Repo:          repo.New(db),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func okHandler(c echo.Context) error {
	userID, _ := CurrentUserID(c)
	return c.JSON(http.StatusOK, echo.Map{"user_id": userID, "role": CurrentRole(c)})
}

func doRequest(e *echo.Echo, handler echo.HandlerFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	svc := newTestAuthService(t)
	mw := NewAutoRefreshMiddleware(svc.JWTSecret, svc)
	e := echo.New()

	rec := doRequest(e, mw.RequireAuth(okHandler))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	svc := newTestAuthService(t)
	mw := NewAutoRefreshMiddleware(svc.JWTSecret, svc)
	e := echo.New()

	token, err := svc.CreateAccessToken("user", "7", time.Now().Add(time.Minute))
	require.NoError(t, err)

	rec := doRequest(e, mw.RequireAuth(okHandler), &http.Cookie{Name: "accessToken", Value: token})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestRequireAdminForbidsUsers(t *testing.T) {
	svc := newTestAuthService(t)
	mw := NewAutoRefreshMiddleware(svc.JWTSecret, svc)
	e := echo.New()

	userToken, err := svc.CreateAccessToken("user", "7", time.Now().Add(time.Minute))
	require.NoError(t, err)
	rec := doRequest(e, mw.RequireAdmin(okHandler), &http.Cookie{Name: "accessToken", Value: userToken})
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := svc.CreateAccessToken("admin", "1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	rec = doRequest(e, mw.RequireAdmin(okHandler), &http.Cookie{Name: "accessToken", Value: adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestExpiredAccessTokenRotatesOffRefresh(t *testing.T) {
	svc := newTestAuthService(t)
	mw := NewAutoRefreshMiddleware(svc.JWTSecret, svc)
	e := echo.New()

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "p",
	})
	require.NoError(t, err)
	login, err := svc.Login(context.Background(), "alice", "p")
	require.NoError(t, err)

	expired, err := svc.CreateAccessToken("user", "1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	rec := doRequest(e, mw.RequireAuth(okHandler),
		&http.Cookie{Name: "accessToken", Value: expired},
		&http.Cookie{Name: "refreshToken", Value: login.RefreshToken},
	)
	require.Equal(t, http.StatusOK, rec.Code)

	var freshAccess string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "accessToken" {
			freshAccess = ck.Value
		}
	}
	require.NotEmpty(t, freshAccess)
	require.NotEqual(t, expired, freshAccess)
}

func TestExpiredAccessWithoutRefreshFails(t *testing.T) {
	svc := newTestAuthService(t)
	mw := NewAutoRefreshMiddleware(svc.JWTSecret, svc)
	e := echo.New()

	expired, err := svc.CreateAccessToken("user", "1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	rec := doRequest(e, mw.RequireAuth(okHandler), &http.Cookie{Name: "accessToken", Value: expired})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
