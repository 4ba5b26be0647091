package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrEmptyCart = errors.New("cart empty")

type OrderLine struct {
	models.OrderItem
	FoodName string `json:"food_name"`
}

type OrderDetail struct {
	Order    models.Order `json:"order"`
	Username string       `json:"username"`
	Items    []OrderLine  `json:"items"`
}

// PlaceOrder converts the user's cart into an order inside one transaction:
// snapshot the cart join, total it with exact decimal arithmetic, write the
// order and its lines with price-at-order frozen, then clear the cart.
// Any failure rolls the whole thing back and leaves the cart untouched.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint, address, paymentMethod string) (*models.Order, error) {
	var order models.Order

	txErr := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("food_item_id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			var food models.FoodItem
			if err := tx.First(&food, it.FoodItemID).Error; err != nil {
				return err
			}
			lineTotal := food.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			total = total.Add(lineTotal)
			lines = append(lines, models.OrderItem{
				FoodItemID:   it.FoodItemID,
				Quantity:     it.Quantity,
				PriceAtOrder: food.Price,
			})
		}

		order = models.Order{
			UserID:          userID,
			OrderDate:       time.Now().UTC(),
			Status:          models.OrderStatusPending,
			TotalAmount:     total,
			DeliveryAddress: address,
			PaymentMethod:   paymentMethod,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].OrderID = order.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})

	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrderDetail(ctx context.Context, orderID uint) (*OrderDetail, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}

	detail := OrderDetail{Order: order}

	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", order.UserID).First(&user).Error; err == nil {
		detail.Username = user.Username
	}

	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	detail.Items = make([]OrderLine, 0, len(items))
	for _, it := range items {
		line := OrderLine{OrderItem: it}
		var food models.FoodItem
		if err := r.DB.WithContext(ctx).Where("id = ?", it.FoodItemID).First(&food).Error; err == nil {
			line.FoodName = food.Name
		}
		detail.Items = append(detail.Items, line)
	}

	return &detail, nil
}

func (r *GormRepo) ListAllOrders(ctx context.Context, status string) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountOrders(ctx context.Context, status string) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	err := q.Count(&total).Error
	return total, err
}
