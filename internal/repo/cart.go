package repo

import (
	"context"

	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is a cart row joined with its food item snapshot.
type CartLine struct {
	FoodItemID  uint            `json:"food_item_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path"`
	Quantity    uint            `json:"quantity"`
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartLines(ctx context.Context, userID uint) ([]CartLine, error) {
	lines := []CartLine{}
	err := r.DB.WithContext(ctx).Table("cart_items").
		Select("food_items.id AS food_item_id, food_items.name, food_items.description, food_items.price, food_items.image_path, cart_items.quantity").
		Joins("JOIN food_items ON food_items.id = cart_items.food_item_id").
		Where("cart_items.user_id = ?", userID).
		Order("food_items.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// AddToCart increments the quantity of an existing (user, food item) line
// or creates the line when none exists.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND food_item_id = ?", item.UserID, item.FoodItemID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND food_item_id = ?", item.UserID, item.FoodItemID).First(item).Error
		}

		return tx.Create(item).Error
	})
}

// AdjustCartItem applies delta to the line's quantity. A result of zero or
// less deletes the line; the first return value reports whether it did.
func (r *GormRepo) AdjustCartItem(ctx context.Context, userID, foodItemID uint, delta int) (bool, *models.CartItem, error) {
	var item models.CartItem
	deleted := false

	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND food_item_id = ?", userID, foodItemID).
			First(&item).Error; err != nil {
			return err
		}

		newQuantity := int(item.Quantity) + delta
		if newQuantity <= 0 {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
			deleted = true
			return nil
		}

		if err := tx.Model(&item).Update("quantity", uint(newQuantity)).Error; err != nil {
			return err
		}
		item.Quantity = uint(newQuantity)
		return nil
	}); err != nil {
		return false, nil, err
	}
	return deleted, &item, nil
}

// RemoveFromCart deletes the line if present; absent lines are a no-op.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, foodItemID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND food_item_id = ?", userID, foodItemID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
