package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/canteen/internal/config"
	auth "github.com/Skotchmaster/canteen/internal/middleware/auth"
	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/repo"
)

func initTestRepo(t *testing.T) *repo.GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return repo.New(db)
}

func newJSONContext(t *testing.T, e *echo.Echo, method, target string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	var body *bytes.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(bodyBytes)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, userID uint, role string) {
	c.Set(auth.CtxUserID, userID)
	c.Set(auth.CtxRole, role)
}

func seedTestFood(t *testing.T, r *repo.GormRepo, name, price string) *models.FoodItem {
	category := models.Category{Name: name + " category"}
	require.NoError(t, r.DB.Create(&category).Error)
	item := models.FoodItem{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: category.ID,
		Available:  true,
	}
	require.NoError(t, r.DB.Create(&item).Error)
	return &item
}

func seedTestUser(t *testing.T, r *repo.GormRepo, username string) *models.User {
	user := models.User{Username: username, PasswordHash: "x", Email: username + "@example.com"}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
