package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusRejected  = "rejected"
	OrderStatusPrepared  = "prepared"
	OrderStatusDelivered = "delivered"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusRejected,
	OrderStatusPrepared,
	OrderStatusDelivered,
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	Phone        string    `json:"phone"`
	IsAdmin      bool      `gorm:"default:false"            json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null"     json:"name"`
	Description string `json:"description"`
}

type FoodItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	CategoryID  uint            `gorm:"index;not null"              json:"category_id"`
	ImagePath   string          `json:"image_path"`
	Available   bool            `gorm:"default:true"                json:"available"`
}

type CartItem struct {
	ID         uint `gorm:"primaryKey"                          json:"id"`
	UserID     uint `gorm:"uniqueIndex:idx_user_food;not null"  json:"user_id"`
	FoodItemID uint `gorm:"uniqueIndex:idx_user_food;not null"  json:"food_item_id"`
	Quantity   uint `gorm:"default:1;check:quantity>0"          json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID              uint            `gorm:"primaryKey"                  json:"id"`
	UserID          uint            `gorm:"index;not null"              json:"user_id"`
	OrderDate       time.Time       `gorm:"not null"                    json:"order_date"`
	Status          string          `gorm:"not null;default:pending"    json:"status"`
	TotalAmount     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_amount"`
	DeliveryAddress string          `gorm:"not null"                    json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
}

type OrderItem struct {
	ID           uint            `gorm:"primaryKey"                  json:"id"`
	OrderID      uint            `gorm:"index;not null"              json:"order_id"`
	FoodItemID   uint            `gorm:"not null"                    json:"food_item_id"`
	Quantity     uint            `gorm:"not null"                    json:"quantity"`
	PriceAtOrder decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price_at_order"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type Review struct {
	ID         uint      `gorm:"primaryKey"     json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	FoodItemID uint      `gorm:"index;not null" json:"food_item_id"`
	OrderID    uint      `gorm:"not null"       json:"order_id"`
	Rating     int       `gorm:"not null"       json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"review_date"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	JTI       string `gorm:"uniqueIndex"     json:"jti"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
