// Package storage provides the fallback façade that unifies the primary
// and fallback record stores behind domain.Store.
package storage

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Fallback tries every operation against the primary store first and,
// when the primary itself fails, retries it against the fallback store
// and returns that result. A lookup miss is an answer, not a failure:
// domain sentinels pass through untouched, otherwise a record deleted
// from the primary would be resurrected from the fallback's state.
// Nothing is remembered between calls: a failing primary is re-attempted
// on every request, so it is picked up again the moment it recovers. The
// two stores are never synchronized, so after a transient primary
// failure the backends can disagree.
type Fallback struct {
	primary  domain.Store
	fallback domain.Store
}

// NewFallback wraps a primary and a fallback store.
func NewFallback(primary, fallback domain.Store) *Fallback {
	return &Fallback{primary: primary, fallback: fallback}
}

// notFound reports whether err is a domain-level miss from a healthy
// backend rather than a backend failure.
func notFound(err error) bool {
	for _, sentinel := range []error{
		domain.ErrUserNotFound,
		domain.ErrProductNotFound,
		domain.ErrOrderNotFound,
		domain.ErrCartItemNotFound,
		domain.ErrSessionNotFound,
		domain.ErrOTPInvalidOrExpired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (f *Fallback) failover(op string, err error) {
	logger.Warn().Err(err).Str("op", op).Msg("primary store failed, using fallback")
}

// User operations

func (f *Fallback) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := f.primary.GetUser(ctx, id)
	if err != nil && !notFound(err) {
		f.failover("get_user", err)
		return f.fallback.GetUser(ctx, id)
	}
	return user, err
}

func (f *Fallback) GetUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	user, err := f.primary.GetUserByPhone(ctx, phoneNumber)
	if err != nil && !notFound(err) {
		f.failover("get_user_by_phone", err)
		return f.fallback.GetUserByPhone(ctx, phoneNumber)
	}
	return user, err
}

func (f *Fallback) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	created, err := f.primary.CreateUser(ctx, user)
	if err != nil && !notFound(err) {
		f.failover("create_user", err)
		return f.fallback.CreateUser(ctx, user)
	}
	return created, err
}

func (f *Fallback) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	updated, err := f.primary.UpdateUser(ctx, id, update)
	if err != nil && !notFound(err) {
		f.failover("update_user", err)
		return f.fallback.UpdateUser(ctx, id, update)
	}
	return updated, err
}

// OTP challenge operations

func (f *Fallback) CreateOtpChallenge(ctx context.Context, challenge *domain.OtpChallenge) (*domain.OtpChallenge, error) {
	created, err := f.primary.CreateOtpChallenge(ctx, challenge)
	if err != nil && !notFound(err) {
		f.failover("create_otp_challenge", err)
		return f.fallback.CreateOtpChallenge(ctx, challenge)
	}
	return created, err
}

func (f *Fallback) GetOtpChallenge(ctx context.Context, phoneNumber, code string) (*domain.OtpChallenge, error) {
	challenge, err := f.primary.GetOtpChallenge(ctx, phoneNumber, code)
	if err != nil && !notFound(err) {
		f.failover("get_otp_challenge", err)
		return f.fallback.GetOtpChallenge(ctx, phoneNumber, code)
	}
	return challenge, err
}

func (f *Fallback) MarkOtpVerified(ctx context.Context, id string) error {
	err := f.primary.MarkOtpVerified(ctx, id)
	if err != nil && !notFound(err) {
		f.failover("mark_otp_verified", err)
		return f.fallback.MarkOtpVerified(ctx, id)
	}
	return err
}

// Category operations

func (f *Fallback) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := f.primary.GetCategories(ctx)
	if err != nil && !notFound(err) {
		f.failover("get_categories", err)
		return f.fallback.GetCategories(ctx)
	}
	return categories, err
}

func (f *Fallback) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	category, err := f.primary.CreateCategory(ctx, input)
	if err != nil && !notFound(err) {
		f.failover("create_category", err)
		return f.fallback.CreateCategory(ctx, input)
	}
	return category, err
}

// Product operations

func (f *Fallback) GetProducts(ctx context.Context, categoryID int) ([]domain.Product, error) {
	products, err := f.primary.GetProducts(ctx, categoryID)
	if err != nil && !notFound(err) {
		f.failover("get_products", err)
		return f.fallback.GetProducts(ctx, categoryID)
	}
	return products, err
}

func (f *Fallback) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	product, err := f.primary.GetProduct(ctx, id)
	if err != nil && !notFound(err) {
		f.failover("get_product", err)
		return f.fallback.GetProduct(ctx, id)
	}
	return product, err
}

func (f *Fallback) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	product, err := f.primary.CreateProduct(ctx, input)
	if err != nil && !notFound(err) {
		f.failover("create_product", err)
		return f.fallback.CreateProduct(ctx, input)
	}
	return product, err
}

func (f *Fallback) UpdateProduct(ctx context.Context, id int, update domain.ProductUpdate) (*domain.Product, error) {
	product, err := f.primary.UpdateProduct(ctx, id, update)
	if err != nil && !notFound(err) {
		f.failover("update_product", err)
		return f.fallback.UpdateProduct(ctx, id, update)
	}
	return product, err
}

func (f *Fallback) DeleteProduct(ctx context.Context, id int) error {
	err := f.primary.DeleteProduct(ctx, id)
	if err != nil && !notFound(err) {
		f.failover("delete_product", err)
		return f.fallback.DeleteProduct(ctx, id)
	}
	return err
}

func (f *Fallback) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := f.primary.SearchProducts(ctx, query)
	if err != nil && !notFound(err) {
		f.failover("search_products", err)
		return f.fallback.SearchProducts(ctx, query)
	}
	return products, err
}

// Cart operations

func (f *Fallback) GetCartItems(ctx context.Context, userID string) ([]domain.CartEntry, error) {
	entries, err := f.primary.GetCartItems(ctx, userID)
	if err != nil && !notFound(err) {
		f.failover("get_cart_items", err)
		return f.fallback.GetCartItems(ctx, userID)
	}
	return entries, err
}

func (f *Fallback) AddToCart(ctx context.Context, userID string, productID, quantity int) (*domain.CartItem, error) {
	item, err := f.primary.AddToCart(ctx, userID, productID, quantity)
	if err != nil && !notFound(err) {
		f.failover("add_to_cart", err)
		return f.fallback.AddToCart(ctx, userID, productID, quantity)
	}
	return item, err
}

func (f *Fallback) UpdateCartItemQuantity(ctx context.Context, userID string, productID, quantity int) error {
	err := f.primary.UpdateCartItemQuantity(ctx, userID, productID, quantity)
	if err != nil && !notFound(err) {
		f.failover("update_cart_item_quantity", err)
		return f.fallback.UpdateCartItemQuantity(ctx, userID, productID, quantity)
	}
	return err
}

func (f *Fallback) RemoveFromCart(ctx context.Context, userID string, productID int) error {
	err := f.primary.RemoveFromCart(ctx, userID, productID)
	if err != nil && !notFound(err) {
		f.failover("remove_from_cart", err)
		return f.fallback.RemoveFromCart(ctx, userID, productID)
	}
	return err
}

func (f *Fallback) ClearCart(ctx context.Context, userID string) error {
	err := f.primary.ClearCart(ctx, userID)
	if err != nil && !notFound(err) {
		f.failover("clear_cart", err)
		return f.fallback.ClearCart(ctx, userID)
	}
	return err
}

// Order operations

func (f *Fallback) GetOrders(ctx context.Context) ([]domain.OrderWithUser, error) {
	orders, err := f.primary.GetOrders(ctx)
	if err != nil && !notFound(err) {
		f.failover("get_orders", err)
		return f.fallback.GetOrders(ctx)
	}
	return orders, err
}

func (f *Fallback) GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := f.primary.GetUserOrders(ctx, userID)
	if err != nil && !notFound(err) {
		f.failover("get_user_orders", err)
		return f.fallback.GetUserOrders(ctx, userID)
	}
	return orders, err
}

func (f *Fallback) GetOrder(ctx context.Context, id int) (*domain.OrderDetail, error) {
	order, err := f.primary.GetOrder(ctx, id)
	if err != nil && !notFound(err) {
		f.failover("get_order", err)
		return f.fallback.GetOrder(ctx, id)
	}
	return order, err
}

func (f *Fallback) CreateOrder(ctx context.Context, input domain.OrderInput, lines []domain.OrderLineInput) (*domain.Order, error) {
	order, err := f.primary.CreateOrder(ctx, input, lines)
	if err != nil && !notFound(err) {
		f.failover("create_order", err)
		return f.fallback.CreateOrder(ctx, input, lines)
	}
	return order, err
}

func (f *Fallback) UpdateOrderStatus(ctx context.Context, id int, status string) (*domain.Order, error) {
	order, err := f.primary.UpdateOrderStatus(ctx, id, status)
	if err != nil && !notFound(err) {
		f.failover("update_order_status", err)
		return f.fallback.UpdateOrderStatus(ctx, id, status)
	}
	return order, err
}

// Session operations

func (f *Fallback) CreateSession(ctx context.Context, session *domain.Session) error {
	err := f.primary.CreateSession(ctx, session)
	if err != nil && !notFound(err) {
		f.failover("create_session", err)
		return f.fallback.CreateSession(ctx, session)
	}
	return err
}

func (f *Fallback) GetSession(ctx context.Context, sid string) (*domain.Session, error) {
	session, err := f.primary.GetSession(ctx, sid)
	if err != nil && !notFound(err) {
		f.failover("get_session", err)
		return f.fallback.GetSession(ctx, sid)
	}
	return session, err
}

func (f *Fallback) UpdateSession(ctx context.Context, session *domain.Session) error {
	err := f.primary.UpdateSession(ctx, session)
	if err != nil && !notFound(err) {
		f.failover("update_session", err)
		return f.fallback.UpdateSession(ctx, session)
	}
	return err
}

func (f *Fallback) DeleteSession(ctx context.Context, sid string) error {
	err := f.primary.DeleteSession(ctx, sid)
	if err != nil && !notFound(err) {
		f.failover("delete_session", err)
		return f.fallback.DeleteSession(ctx, sid)
	}
	return err
}

// Compile-time interface compliance verification
var _ domain.Store = (*Fallback)(nil)
