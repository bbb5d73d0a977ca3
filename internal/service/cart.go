// Package service implements the storefront's cart lifecycle and checkout
// flows on top of the repositories, with the session passed in explicitly.
package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petstore/internal/core/session"
	"petstore/internal/domain"
)

var (
	// ErrNotSignedIn is a control-flow signal: handlers turn it into a
	// redirect to login, not an error page.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrProductNotFound sends the caller back to the catalog without
	// touching the cart.
	ErrProductNotFound = errors.New("product not found")
)

type Cart struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	sessions *session.Store
	log      *zap.Logger
}

func NewCart(carts domain.CartRepository, products domain.ProductRepository, sessions *session.Store, log *zap.Logger) *Cart {
	return &Cart{carts: carts, products: products, sessions: sessions, log: log}
}

// ResolveCart returns the session user's active cart ID, creating the cart on
// first use. A cart ID already cached in the session is trusted as-is; the
// cache is written back before returning.
func (s *Cart) ResolveCart(ctx context.Context, sess *session.Session) (uint, error) {
	if !sess.SignedIn() {
		return 0, ErrNotSignedIn
	}
	if sess.CartID != 0 {
		return sess.CartID, nil
	}

	cart, err := s.carts.FindByUser(ctx, sess.UserID)
	if err != nil {
		return 0, err
	}
	if cart == nil {
		cart, err = s.carts.CreateForUser(ctx, sess.UserID)
		if err != nil {
			return 0, err
		}
		s.log.Info("cart created", zap.Uint("user_id", sess.UserID), zap.Uint("cart_id", cart.ID))
	}

	sess.CartID = cart.ID
	if err := s.sessions.Save(ctx, sess); err != nil {
		return 0, err
	}
	return cart.ID, nil
}

// AddItem puts qty units of a product into the user's cart, merging into an
// existing line for the same product. Quantities below one are treated as one.
func (s *Cart) AddItem(ctx context.Context, sess *session.Session, productID uint, qty int) error {
	if !sess.SignedIn() {
		return ErrNotSignedIn
	}
	if qty < 1 {
		qty = 1
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}

	cartID, err := s.ResolveCart(ctx, sess)
	if err != nil {
		return err
	}
	return s.carts.AddOrIncrementItem(ctx, cartID, productID, qty)
}

// UpdateQuantity sets an owned line's quantity; zero or below removes the
// line. A line belonging to someone else's cart is silently ignored.
func (s *Cart) UpdateQuantity(ctx context.Context, sess *session.Session, itemID uint, qty int) error {
	cartID, err := s.ResolveCart(ctx, sess)
	if err != nil {
		return err
	}
	_, err = s.carts.SetItemQuantity(ctx, cartID, itemID, qty)
	return err
}

func (s *Cart) RemoveItem(ctx context.Context, sess *session.Session, itemID uint) error {
	cartID, err := s.ResolveCart(ctx, sess)
	if err != nil {
		return err
	}
	_, err = s.carts.RemoveItem(ctx, cartID, itemID)
	return err
}

func (s *Cart) Clear(ctx context.Context, sess *session.Session) error {
	cartID, err := s.ResolveCart(ctx, sess)
	if err != nil {
		return err
	}
	return s.carts.ClearItems(ctx, cartID)
}

// View snapshots the cart: lines in store order plus the computed total.
func (s *Cart) View(ctx context.Context, sess *session.Session) (*domain.CartView, error) {
	cartID, err := s.ResolveCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}

	view := &domain.CartView{CartID: cartID, Lines: make([]domain.CartLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		if it.Product == nil {
			// product row deleted out from under the cart; skip the line
			continue
		}
		sub := it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		view.Lines = append(view.Lines, domain.CartLine{
			Item:     it,
			Product:  *it.Product,
			Quantity: it.Quantity,
			Subtotal: sub,
		})
		view.Total = view.Total.Add(sub)
	}
	return view, nil
}
