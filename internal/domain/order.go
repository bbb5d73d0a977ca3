package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order and OrderedItem are persisted for the back office. The storefront
// checkout is simulated and never writes them; see service.Checkout.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"index;not null" json:"userId"`
	OrderDate       time.Time       `json:"orderDate"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Status          string          `gorm:"size:20;not null;default:Pending" json:"status"`
	ShippingAddress string          `gorm:"size:200;not null" json:"shippingAddress"`
	Items           []OrderedItem   `json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

type OrderedItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"index;not null" json:"orderId"`
	ProductID       uint            `gorm:"not null" json:"productId"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"priceAtPurchase"`
}

func (OrderedItem) TableName() string { return "ordered_items" }

type OrderRepository interface {
	Count(ctx context.Context) (int64, error)
}
