package services

import (
	"context"
	"errors"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

// CartServiceImpl implements domain.CartService on top of the store.
type CartServiceImpl struct {
	store domain.Store
}

// NewCartService creates a new cart service.
func NewCartService(store domain.Store) domain.CartService {
	return &CartServiceImpl{store: store}
}

// List returns the user's cart joined against the current catalog.
func (s *CartServiceImpl) List(ctx context.Context, userID string) ([]domain.CartEntry, error) {
	return s.store.GetCartItems(ctx, userID)
}

// Add puts quantity of a product into the cart. An existing
// (user, product) row has the quantity merged in, never duplicated.
// The product id is not checked against the catalog here; a dangling
// reference is dropped by List instead.
func (s *CartServiceImpl) Add(ctx context.Context, userID string, productID, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.store.AddToCart(ctx, userID, productID, quantity)
}

// SetQuantity overwrites the row's quantity; zero or less removes the
// row. A missing row is a no-op so the operation stays idempotent for
// the HTTP surface.
func (s *CartServiceImpl) SetQuantity(ctx context.Context, userID string, productID, quantity int) error {
	err := s.store.UpdateCartItemQuantity(ctx, userID, productID, quantity)
	if errors.Is(err, domain.ErrCartItemNotFound) {
		return nil
	}
	return err
}

// Remove deletes the row; absence is not an error.
func (s *CartServiceImpl) Remove(ctx context.Context, userID string, productID int) error {
	return s.store.RemoveFromCart(ctx, userID, productID)
}

// Clear empties the user's cart.
func (s *CartServiceImpl) Clear(ctx context.Context, userID string) error {
	return s.store.ClearCart(ctx, userID)
}

// Compile-time interface compliance verification
var _ domain.CartService = (*CartServiceImpl)(nil)
