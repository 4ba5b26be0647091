package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/canteen/internal/logging"
	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/repo"
	"github.com/Skotchmaster/canteen/internal/util"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

type FoodItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uint
	ImagePath   string
}

// FoodItemPatch updates only the fields that are set.
type FoodItemPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *uint
	ImagePath   *string
	Available   *bool
}

type FoodItemPage struct {
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Items []models.FoodItem `json:"items"`
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.Repo.ListCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("category_list_failed", "error", err)
		return nil, fmt.Errorf("list categories: %w", ErrStorage)
	}
	return categories, nil
}

func (s *CatalogService) ListFoodItems(ctx context.Context, categoryID *uint, page, size int) (*FoodItemPage, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListFoodItems(ctx, categoryID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("food_list_failed", "error", err)
		return nil, fmt.Errorf("list food items: %w", ErrStorage)
	}
	if page < 1 {
		page = 1
	}
	return &FoodItemPage{Total: total, Page: page, Size: limit, Items: items}, nil
}

func (s *CatalogService) GetFoodItem(ctx context.Context, id uint) (*repo.FoodDetail, error) {
	detail, err := s.Repo.GetFoodDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food item not found: %w", ErrNotFound)
		}
		logging.FromContext(ctx).Error("food_get_failed", "food_item_id", id, "error", err)
		return nil, fmt.Errorf("get food item: %w", ErrStorage)
	}
	return detail, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrValidation)
	}

	category := models.Category{Name: name, Description: description}
	if err := s.Repo.CreateCategory(ctx, &category); err != nil {
		if errors.Is(err, repo.ErrCategoryNameTaken) {
			return nil, fmt.Errorf("category name already exists: %w", ErrValidation)
		}
		logging.FromContext(ctx).Error("category_create_failed", "error", err)
		return nil, fmt.Errorf("create category: %w", ErrStorage)
	}
	return &category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name, description *string) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", ErrStorage)
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("category name is required: %w", ErrValidation)
		}
		category.Name = trimmed
	}
	if description != nil {
		category.Description = *description
	}

	if err := s.Repo.UpdateCategory(ctx, category); err != nil {
		logging.FromContext(ctx).Error("category_update_failed", "category_id", id, "error", err)
		return nil, fmt.Errorf("update category: %w", ErrStorage)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrCategoryInUse):
			return fmt.Errorf("category still has food items: %w", ErrValidation)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("category not found: %w", ErrNotFound)
		default:
			logging.FromContext(ctx).Error("category_delete_failed", "category_id", id, "error", err)
			return fmt.Errorf("delete category: %w", ErrStorage)
		}
	}
	return nil
}

func (s *CatalogService) CreateFoodItem(ctx context.Context, in FoodItemInput) (*models.FoodItem, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_food")

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("food item name is required: %w", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}

	if _, err := s.Repo.GetCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		l.Error("food_create_failed", "error", err)
		return nil, fmt.Errorf("get category: %w", ErrStorage)
	}

	item := models.FoodItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImagePath:   in.ImagePath,
		Available:   true,
	}
	if err := s.Repo.CreateFoodItem(ctx, &item); err != nil {
		l.Error("food_create_failed", "error", err)
		return nil, fmt.Errorf("create food item: %w", ErrStorage)
	}

	l.Info("food_item_created", "food_item_id", item.ID, "name", item.Name)
	return &item, nil
}

func (s *CatalogService) UpdateFoodItem(ctx context.Context, id uint, patch FoodItemPatch) (*models.FoodItem, error) {
	item, err := s.Repo.GetFoodItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food item not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get food item: %w", ErrStorage)
	}

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("food item name is required: %w", ErrValidation)
		}
		item.Name = trimmed
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
		}
		item.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		if _, err := s.Repo.GetCategory(ctx, *patch.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("category not found: %w", ErrNotFound)
			}
			return nil, fmt.Errorf("get category: %w", ErrStorage)
		}
		item.CategoryID = *patch.CategoryID
	}
	if patch.ImagePath != nil {
		item.ImagePath = *patch.ImagePath
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.Repo.UpdateFoodItem(ctx, item); err != nil {
		logging.FromContext(ctx).Error("food_update_failed", "food_item_id", id, "error", err)
		return nil, fmt.Errorf("update food item: %w", ErrStorage)
	}
	return item, nil
}

// DisableFoodItem hides an item from the menu without touching order history.
func (s *CatalogService) DisableFoodItem(ctx context.Context, id uint) error {
	if err := s.Repo.DisableFoodItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("food item not found: %w", ErrNotFound)
		}
		logging.FromContext(ctx).Error("food_disable_failed", "food_item_id", id, "error", err)
		return fmt.Errorf("disable food item: %w", ErrStorage)
	}
	return nil
}
