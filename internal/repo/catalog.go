package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/canteen/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCategoryInUse     = errors.New("category has food items")
	ErrCategoryNameTaken = errors.New("category name already exists")
)

type FoodDetail struct {
	models.FoodItem
	CategoryName string  `json:"category_name"`
	AvgRating    float64 `json:"avg_rating"`
	ReviewCount  int64   `json:"review_count"`
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryNameTaken
		}
		return tx.Create(category).Error
	})
}

func (r *GormRepo) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Save(category).Error
}

// DeleteCategory refuses to delete a category that food items still reference.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FoodItem{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListFoodItems returns available items only, optionally filtered by category.
func (r *GormRepo) ListFoodItems(ctx context.Context, categoryID *uint, offset, limit int) (int64, []models.FoodItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.FoodItem{}).Where("available = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.FoodItem
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetFoodItem(ctx context.Context, id uint) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetFoodDetail(ctx context.Context, id uint) (*FoodDetail, error) {
	item, err := r.GetFoodItem(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := FoodDetail{FoodItem: *item}

	var category models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", item.CategoryID).First(&category).Error; err == nil {
		detail.CategoryName = category.Name
	}

	var agg struct {
		Avg float64
		Cnt int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS cnt").
		Where("food_item_id = ?", id).
		Scan(&agg).Error; err != nil {
		return nil, err
	}
	detail.AvgRating = agg.Avg
	detail.ReviewCount = agg.Cnt

	return &detail, nil
}

func (r *GormRepo) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) UpdateFoodItem(ctx context.Context, item *models.FoodItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

// DisableFoodItem takes an item off the menu without deleting its rows,
// so order history keeps resolving names and prices.
func (r *GormRepo) DisableFoodItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.FoodItem{}).
		Where("id = ?", id).
		Update("available", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountFoodItems(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.FoodItem{}).Count(&total).Error
	return total, err
}
