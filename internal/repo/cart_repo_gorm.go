package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"petstore/internal/domain"
)

type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) FindByUser(ctx context.Context, userID uint) (*domain.Cart, error) {
	var c domain.Cart
	err := r.db.WithContext(ctx).First(&c, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateForUser inserts the user's cart. Two tabs racing the first add both
// reach this insert; the unique index on user_id lets one win and the loser
// re-queries the surviving row.
func (r *CartRepo) CreateForUser(ctx context.Context, userID uint) (*domain.Cart, error) {
	c := domain.Cart{UserID: &userID}
	err := r.db.WithContext(ctx).Create(&c).Error
	if err == nil {
		return &c, nil
	}
	if isDupKey(err) {
		return r.FindByUser(ctx, userID)
	}
	return nil, err
}

func (r *CartRepo) AddOrIncrementItem(ctx context.Context, cartID, productID uint, qty int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.CartItem
		err := tx.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = domain.CartItem{CartID: cartID, ProductID: productID, Quantity: clampQuantity(qty)}
			return tx.Create(&item).Error
		case err != nil:
			return err
		default:
			item.Quantity = clampQuantity(item.Quantity + qty)
			return tx.Save(&item).Error
		}
	})
}

func (r *CartRepo) SetItemQuantity(ctx context.Context, cartID, itemID uint, qty int) (bool, error) {
	owned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.CartItem
		err := tx.First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		owned = true
		if qty <= 0 {
			return tx.Delete(&item).Error
		}
		item.Quantity = clampQuantity(qty)
		return tx.Save(&item).Error
	})
	return owned, err
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, itemID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&domain.CartItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *CartRepo) ClearItems(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
}

func (r *CartRepo) ListItems(ctx context.Context, cartID uint) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).Preload("Product").Where("cart_id = ?", cartID).Find(&items).Error
	return items, err
}

func clampQuantity(q int) int {
	if q < domain.MinItemQuantity {
		return domain.MinItemQuantity
	}
	if q > domain.MaxItemQuantity {
		return domain.MaxItemQuantity
	}
	return q
}

// isDupKey avoids depending on driver-specific error types; unique violations
// phrase themselves differently per backend.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
