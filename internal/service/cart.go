package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/canteen/internal/logging"
	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/repo"
)

type CartService struct {
	Repo  *repo.GormRepo
	Locks *UserLocks
}

// AddItem puts quantity units of a food item into the user's cart, merging
// with an existing line for the same item.
func (s *CartService) AddItem(ctx context.Context, userID, foodItemID uint, quantity int) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "food_item_id", foodItemID)

	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	food, err := s.Repo.GetFoodItem(ctx, foodItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food item not found: %w", ErrNotFound)
		}
		l.Error("cart_add_failed", "error", err)
		return nil, fmt.Errorf("lookup food item: %w", ErrStorage)
	}
	if !food.Available {
		return nil, fmt.Errorf("food item not found: %w", ErrNotFound)
	}

	mu := s.Locks.Get(userID)
	mu.Lock()
	defer mu.Unlock()

	item := models.CartItem{
		UserID:     userID,
		FoodItemID: foodItemID,
		Quantity:   uint(quantity),
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		l.Error("cart_add_failed", "error", err)
		return nil, fmt.Errorf("add to cart: %w", ErrStorage)
	}

	l.Info("cart_item_added", "quantity", item.Quantity)
	return &item, nil
}

// AdjustQuantity applies delta to a cart line. Dropping to zero or below
// removes the line and reports removed=true.
func (s *CartService) AdjustQuantity(ctx context.Context, userID, foodItemID uint, delta int) (removed bool, item *models.CartItem, err error) {
	l := logging.FromContext(ctx).With("svc", "cart.adjust", "user_id", userID, "food_item_id", foodItemID)

	mu := s.Locks.Get(userID)
	mu.Lock()
	defer mu.Unlock()

	removed, item, err = s.Repo.AdjustCartItem(ctx, userID, foodItemID, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		l.Error("cart_adjust_failed", "error", err)
		return false, nil, fmt.Errorf("adjust cart item: %w", ErrStorage)
	}
	return removed, item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, foodItemID uint) error {
	mu := s.Locks.Get(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.Repo.RemoveFromCart(ctx, userID, foodItemID); err != nil {
		logging.FromContext(ctx).Error("cart_remove_failed", "user_id", userID, "error", err)
		return fmt.Errorf("remove cart item: %w", ErrStorage)
	}
	return nil
}

func (s *CartService) ListItems(ctx context.Context, userID uint) ([]repo.CartLine, error) {
	lines, err := s.Repo.GetCartLines(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("cart_list_failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list cart: %w", ErrStorage)
	}
	return lines, nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	mu := s.Locks.Get(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("cart_clear_failed", "user_id", userID, "error", err)
		return fmt.Errorf("clear cart: %w", ErrStorage)
	}
	return nil
}
