package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quantity bounds for a single cart line. A quantity at or below zero is never
// persisted: the row is deleted instead.
const (
	MinItemQuantity = 1
	MaxItemQuantity = 100
)

// Cart is the per-user collection of pending line items. UserID is nullable so
// a cart can outlive its deleted owner; the unique index keeps concurrent
// first-adds from leaving two carts behind for the same user.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"uniqueIndex" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	CartID    uint     `gorm:"index:idx_cart_product,unique;not null" json:"cartId"`
	ProductID uint     `gorm:"index:idx_cart_product,unique;not null" json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null;default:1" json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }

// CartLine is one row of the cart snapshot handed to the presentation layer.
type CartLine struct {
	Item     CartItem        `json:"item"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the snapshot produced by viewing a cart: lines in store order
// plus the computed total over them.
type CartView struct {
	CartID uint            `json:"cartId"`
	Lines  []CartLine      `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}

type CartRepository interface {
	FindByUser(ctx context.Context, userID uint) (*Cart, error)
	// CreateForUser inserts a cart for the user; when a concurrent request wins
	// the insert, the already-persisted cart is returned instead.
	CreateForUser(ctx context.Context, userID uint) (*Cart, error)
	// AddOrIncrementItem merges repeated adds of the same product into a single
	// line, clamping the resulting quantity to MaxItemQuantity, in one unit of
	// work.
	AddOrIncrementItem(ctx context.Context, cartID, productID uint, qty int) error
	// SetItemQuantity updates an owned line, deleting it when qty <= 0. Returns
	// false when the line does not belong to the cart.
	SetItemQuantity(ctx context.Context, cartID, itemID uint, qty int) (bool, error)
	RemoveItem(ctx context.Context, cartID, itemID uint) (bool, error)
	ClearItems(ctx context.Context, cartID uint) error
	ListItems(ctx context.Context, cartID uint) ([]CartItem, error)
}
