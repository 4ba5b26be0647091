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

type AdminService struct {
	Repo *repo.GormRepo
}

type Stats struct {
	TotalOrders    int64 `json:"total_orders"`
	PendingOrders  int64 `json:"pending_orders"`
	TotalFoodItems int64 `json:"total_food_items"`
	TotalCustomers int64 `json:"total_customers"`
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	l := logging.FromContext(ctx).With("svc", "admin.stats")

	var stats Stats
	var err error
	if stats.TotalOrders, err = s.Repo.CountOrders(ctx, ""); err != nil {
		l.Error("stats_failed", "error", err)
		return nil, fmt.Errorf("count orders: %w", ErrStorage)
	}
	if stats.PendingOrders, err = s.Repo.CountOrders(ctx, models.OrderStatusPending); err != nil {
		l.Error("stats_failed", "error", err)
		return nil, fmt.Errorf("count pending orders: %w", ErrStorage)
	}
	if stats.TotalFoodItems, err = s.Repo.CountFoodItems(ctx); err != nil {
		l.Error("stats_failed", "error", err)
		return nil, fmt.Errorf("count food items: %w", ErrStorage)
	}
	if stats.TotalCustomers, err = s.Repo.CountCustomers(ctx); err != nil {
		l.Error("stats_failed", "error", err)
		return nil, fmt.Errorf("count customers: %w", ErrStorage)
	}
	return &stats, nil
}

func (s *AdminService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q: %w", status, ErrValidation)
	}

	orders, err := s.Repo.ListAllOrders(ctx, status)
	if err != nil {
		logging.FromContext(ctx).Error("admin_order_list_failed", "error", err)
		return nil, fmt.Errorf("list orders: %w", ErrStorage)
	}
	return orders, nil
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	l := logging.FromContext(ctx).With("svc", "admin.order_status", "order_id", orderID)

	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("unknown order status %q: %w", status, ErrValidation)
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order not found: %w", ErrNotFound)
		}
		l.Error("order_status_failed", "error", err)
		return fmt.Errorf("update order status: %w", ErrStorage)
	}

	l.Info("order_status_updated", "status", status)
	return nil
}
