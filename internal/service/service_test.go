package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/canteen/internal/config"
	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return repo.New(db)
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string) *models.Category {
	category := models.Category{Name: name}
	require.NoError(t, r.DB.Create(&category).Error)
	return &category
}

func seedFood(t *testing.T, r *repo.GormRepo, categoryID uint, name, price string) *models.FoodItem {
	item := models.FoodItem{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		Available:  true,
	}
	require.NoError(t, r.DB.Create(&item).Error)
	return &item
}

func seedUser(t *testing.T, r *repo.GormRepo, username string, admin bool) *models.User {
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@example.com",
		IsAdmin:      admin,
	}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}
