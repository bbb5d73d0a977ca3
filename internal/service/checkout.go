package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petstore/internal/core/session"
	"petstore/internal/domain"
)

// Checkout runs the one-shot payment form flow. It is simulated end to end:
// the card form is validated and discarded, no order row is written and no
// stock is decremented. The only durable effect of a successful submission is
// the cart being emptied and the session dropping its cart reference.
type Checkout struct {
	carts    domain.CartRepository
	sessions *session.Store
	log      *zap.Logger
}

func NewCheckout(carts domain.CartRepository, sessions *session.Store, log *zap.Logger) *Checkout {
	return &Checkout{carts: carts, sessions: sessions, log: log}
}

type CheckoutResult struct {
	Success     bool            `json:"success"`
	FieldErrors FieldErrors     `json:"fieldErrors,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// Submit validates the form and, when it passes, empties the session's cart
// and removes the cart reference from the session in that order. A session
// without a cart still checks out successfully; nothing is created. The cart
// row itself survives, empty.
func (s *Checkout) Submit(ctx context.Context, sess *session.Session, form *CheckoutForm) (*CheckoutResult, error) {
	if errs := ValidateCheckoutForm(form); len(errs) > 0 {
		return &CheckoutResult{FieldErrors: errs}, nil
	}

	if sess.CartID != 0 {
		if err := s.carts.ClearItems(ctx, sess.CartID); err != nil {
			return nil, err
		}
		cartID := sess.CartID
		sess.CartID = 0
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
		s.log.Info("checkout completed", zap.Uint("cart_id", cartID), zap.Uint("user_id", sess.UserID))
	}

	return &CheckoutResult{Success: true}, nil
}
