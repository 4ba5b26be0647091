package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/canteen/internal/models"
)

func newCatalogService(t *testing.T) *CatalogService {
	return &CatalogService{Repo: newTestRepo(t)}
}

func TestCategoryLifecycle(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "Mains", "hot dishes")
	require.NoError(t, err)
	require.NotZero(t, category.ID)

	_, err = svc.CreateCategory(ctx, "Mains", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCategory(ctx, "  ", "")
	require.ErrorIs(t, err, ErrValidation)

	newName := "Hot mains"
	updated, err := svc.UpdateCategory(ctx, category.ID, &newName, nil)
	require.NoError(t, err)
	require.Equal(t, "Hot mains", updated.Name)
	require.Equal(t, "hot dishes", updated.Description)

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
	require.ErrorIs(t, svc.DeleteCategory(ctx, category.ID), ErrNotFound)
}

func TestDeleteCategoryInUse(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	category := seedCategory(t, svc.Repo, "Mains")
	seedFood(t, svc.Repo, category.ID, "Plov", "5.00")

	err := svc.DeleteCategory(ctx, category.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateFoodItemValidation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	category := seedCategory(t, svc.Repo, "Mains")

	_, err := svc.CreateFoodItem(ctx, FoodItemInput{Name: "", Price: decimal.NewFromInt(1), CategoryID: category.ID})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateFoodItem(ctx, FoodItemInput{Name: "Plov", Price: decimal.RequireFromString("-1"), CategoryID: category.ID})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateFoodItem(ctx, FoodItemInput{Name: "Plov", Price: decimal.NewFromInt(1), CategoryID: 9999})
	require.ErrorIs(t, err, ErrNotFound)

	item, err := svc.CreateFoodItem(ctx, FoodItemInput{Name: " Plov ", Price: decimal.RequireFromString("5.50"), CategoryID: category.ID})
	require.NoError(t, err)
	require.Equal(t, "Plov", item.Name)
	require.True(t, item.Available)
}

func TestListFoodItemsFiltersAndPages(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	mains := seedCategory(t, svc.Repo, "Mains")
	drinks := seedCategory(t, svc.Repo, "Drinks")
	seedFood(t, svc.Repo, mains.ID, "Plov", "5.00")
	seedFood(t, svc.Repo, mains.ID, "Lagman", "6.00")
	tea := seedFood(t, svc.Repo, drinks.ID, "Tea", "1.00")

	page, err := svc.ListFoodItems(ctx, nil, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), page.Total)

	page, err = svc.ListFoodItems(ctx, &mains.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)

	// disabled items disappear from listings
	require.NoError(t, svc.DisableFoodItem(ctx, tea.ID))
	page, err = svc.ListFoodItems(ctx, nil, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)

	page, err = svc.ListFoodItems(ctx, nil, 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 1)
}

func TestPatchFoodItem(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	category := seedCategory(t, svc.Repo, "Mains")
	item := seedFood(t, svc.Repo, category.ID, "Plov", "5.00")

	newPrice := decimal.RequireFromString("6.50")
	off := false
	updated, err := svc.UpdateFoodItem(ctx, item.ID, FoodItemPatch{Price: &newPrice, Available: &off})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(newPrice))
	require.False(t, updated.Available)
	require.Equal(t, "Plov", updated.Name)

	badPrice := decimal.RequireFromString("-2")
	_, err = svc.UpdateFoodItem(ctx, item.ID, FoodItemPatch{Price: &badPrice})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateFoodItem(ctx, 9999, FoodItemPatch{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFoodDetailReviewAggregates(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	category := seedCategory(t, svc.Repo, "Mains")
	item := seedFood(t, svc.Repo, category.ID, "Plov", "5.00")
	user := seedUser(t, svc.Repo, "alice", false)

	for _, rating := range []int{4, 5} {
		require.NoError(t, svc.Repo.DB.Create(&models.Review{
			UserID:     user.ID,
			FoodItemID: item.ID,
			OrderID:    1,
			Rating:     rating,
			ReviewDate: time.Now().UTC(),
		}).Error)
	}

	detail, err := svc.GetFoodItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, "Mains", detail.CategoryName)
	require.InDelta(t, 4.5, detail.AvgRating, 0.001)
	require.Equal(t, int64(2), detail.ReviewCount)

	_, err = svc.GetFoodItem(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}
