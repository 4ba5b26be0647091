package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/canteen/internal/logging"
	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/repo"
)

type OrderService struct {
	Repo  *repo.GormRepo
	Locks *UserLocks
}

// PlaceOrder turns the user's cart into a pending order. The cart is locked
// against concurrent mutation for the duration, and the storage side runs in
// one transaction, so a failure leaves both the cart and order tables as
// they were.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, address, paymentMethod string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("delivery address is required: %w", ErrValidation)
	}
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	mu := s.Locks.Get(userID)
	mu.Lock()
	defer mu.Unlock()

	order, err := s.Repo.PlaceOrder(ctx, userID, address, paymentMethod)
	if err != nil {
		if errors.Is(err, repo.ErrEmptyCart) {
			return nil, fmt.Errorf("cart is empty: %w", ErrValidation)
		}
		l.Error("order_place_failed", "error", err)
		return nil, fmt.Errorf("place order: %w", ErrOrder)
	}

	l.Info("order_placed", "order_id", order.ID, "total", order.TotalAmount.String())
	return order, nil
}

func (s *OrderService) GetOrderHistory(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("order_history_failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list orders: %w", ErrStorage)
	}
	return orders, nil
}

// GetOrderDetail returns one order with its lines. Non-admin callers only
// see their own orders.
func (s *OrderService) GetOrderDetail(ctx context.Context, orderID, userID uint, isAdmin bool) (*repo.OrderDetail, error) {
	detail, err := s.Repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", ErrNotFound)
		}
		logging.FromContext(ctx).Error("order_detail_failed", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("get order: %w", ErrStorage)
	}
	if !isAdmin && detail.Order.UserID != userID {
		return nil, fmt.Errorf("order not found: %w", ErrNotFound)
	}
	return detail, nil
}
