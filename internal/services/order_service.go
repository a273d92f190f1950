package services

import (
	"context"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

var orderLogger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "order").Logger()

// OrderServiceImpl implements domain.OrderService on top of the store.
type OrderServiceImpl struct {
	store domain.Store
}

// NewOrderService creates a new order service.
func NewOrderService(store domain.Store) domain.OrderService {
	return &OrderServiceImpl{store: store}
}

// Checkout converts the user's cart into an order. The total and the
// per-line prices are snapshotted from the current catalog at this
// moment and never recomputed, and the store clears the cart as part of
// order creation.
func (s *OrderServiceImpl) Checkout(ctx context.Context, userID string, input domain.CheckoutInput) (*domain.Order, error) {
	entries, err := s.store.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrEmptyCart
	}

	total := 0.0
	lines := make([]domain.OrderLineInput, 0, len(entries))
	for _, entry := range entries {
		price, err := strconv.ParseFloat(entry.Product.Price, 64)
		if err != nil {
			orderLogger.Warn().Str("price", entry.Product.Price).Int("productId", entry.ProductID).Msg("unparseable price treated as zero")
			price = 0
		}
		total += price * float64(entry.Quantity)
		lines = append(lines, domain.OrderLineInput{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Price:     entry.Product.Price,
		})
	}

	order, err := s.store.CreateOrder(ctx, domain.OrderInput{
		UserID:          userID,
		Status:          domain.OrderPending,
		Total:           strconv.FormatFloat(total, 'f', -1, 64),
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
	}, lines)
	if err != nil {
		return nil, err
	}
	orderLogger.Info().Int("orderId", order.ID).Str("userId", userID).Str("total", order.Total).Msg("order created")
	return order, nil
}

// OrdersForAdmin lists every order with its owner.
func (s *OrderServiceImpl) OrdersForAdmin(ctx context.Context) ([]domain.OrderWithUser, error) {
	return s.store.GetOrders(ctx)
}

// OrdersForUser lists the orders a customer placed.
func (s *OrderServiceImpl) OrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.store.GetUserOrders(ctx, userID)
}

// Order returns one order with its lines resolved to products.
func (s *OrderServiceImpl) Order(ctx context.Context, id int) (*domain.OrderDetail, error) {
	return s.store.GetOrder(ctx, id)
}

// UpdateStatus sets the fulfillment status. Membership in the enum is
// checked; transitions are not, so any status can follow any other.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, id int, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidOrderStatus
	}
	return s.store.UpdateOrderStatus(ctx, id, status)
}

// Compile-time interface compliance verification
var _ domain.OrderService = (*OrderServiceImpl)(nil)
