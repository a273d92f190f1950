// Package memory implements domain.Store on in-process slices. It is the
// fallback backend: contents are lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

// Store holds every collection in ordered slices. One instance per
// process (or per test); there are no package-level singletons.
type Store struct {
	mu sync.Mutex

	users      []domain.User
	challenges []domain.OtpChallenge
	categories []domain.Category
	products   []domain.Product
	cartItems  []domain.CartItem
	orders     []domain.Order
	orderLines []domain.OrderLine
	sessions   []domain.Session
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithSeedData pre-populates the sample grocery catalog so a fresh
// process can serve a storefront before any admin has created products.
func WithSeedData() Option {
	return func(s *Store) {
		s.categories = append(s.categories, seedCategories()...)
		s.products = append(s.products, seedProducts()...)
	}
}

// NewStore creates an empty in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextID assigns max(existing)+1, or 1 for an empty collection. Gaps left
// by deletes are never reused.
func nextID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func productIDs(products []domain.Product) []int {
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

// User operations

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) GetUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].PhoneNumber == phoneNumber {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users = append(s.users, u)
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if update.FirstName != nil {
			s.users[i].FirstName = *update.FirstName
		}
		if update.LastName != nil {
			s.users[i].LastName = *update.LastName
		}
		if update.IsAdmin != nil {
			s.users[i].IsAdmin = *update.IsAdmin
		}
		s.users[i].UpdatedAt = time.Now()
		u := s.users[i]
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

// OTP challenge operations

func (s *Store) CreateOtpChallenge(ctx context.Context, challenge *domain.OtpChallenge) (*domain.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *challenge
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Verified = false
	c.CreatedAt = time.Now()
	s.challenges = append(s.challenges, c)
	return &c, nil
}

// GetOtpChallenge returns an unverified, unexpired challenge matching
// phone number and code, or ErrOTPInvalidOrExpired.
func (s *Store) GetOtpChallenge(ctx context.Context, phoneNumber, code string) (*domain.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for i := range s.challenges {
		c := s.challenges[i]
		if c.PhoneNumber == phoneNumber && c.Code == code && !c.Verified && c.ExpiresAt.After(now) {
			return &c, nil
		}
	}
	return nil, domain.ErrOTPInvalidOrExpired
}

func (s *Store) MarkOtpVerified(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.challenges {
		if s.challenges[i].ID == id {
			s.challenges[i].Verified = true
			return nil
		}
	}
	return domain.ErrOTPInvalidOrExpired
}

// Category operations

func (s *Store) GetCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(s.categories))
	for i, c := range s.categories {
		ids[i] = c.ID
	}
	cat := domain.Category{
		ID:        nextID(ids),
		Name:      input.Name,
		Icon:      input.Icon,
		CreatedAt: time.Now(),
	}
	s.categories = append(s.categories, cat)
	return &cat, nil
}

// Product operations

func (s *Store) GetProducts(ctx context.Context, categoryID int) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findProduct(id)
}

// findProduct requires s.mu held.
func (s *Store) findProduct(id int) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *Store) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p := domain.Product{
		ID:          nextID(productIDs(s.products)),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		CategoryID:  input.CategoryID,
		InStock:     input.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products = append(s.products, p)
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int, update domain.ProductUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		if update.Name != nil {
			s.products[i].Name = *update.Name
		}
		if update.Description != nil {
			s.products[i].Description = *update.Description
		}
		if update.Price != nil {
			s.products[i].Price = *update.Price
		}
		if update.Image != nil {
			s.products[i].Image = *update.Image
		}
		if update.CategoryID != nil {
			s.products[i].CategoryID = *update.CategoryID
		}
		if update.InStock != nil {
			s.products[i].InStock = *update.InStock
		}
		s.products[i].UpdatedAt = time.Now()
		p := s.products[i]
		return &p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (s *Store) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	term := strings.ToLower(query)
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Cart operations

// GetCartItems joins the user's cart against the current catalog. Items
// whose product has been deleted are dropped, not surfaced as errors.
func (s *Store) GetCartItems(ctx context.Context, userID string) ([]domain.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartEntry, 0)
	for _, item := range s.cartItems {
		if item.UserID != userID {
			continue
		}
		product, err := s.findProduct(item.ProductID)
		if err != nil {
			continue
		}
		out = append(out, domain.CartEntry{CartItem: item, Product: *product})
	}
	return out, nil
}

// AddToCart merges quantity into an existing (userID, productID) row, or
// inserts a new one.
func (s *Store) AddToCart(ctx context.Context, userID string, productID, quantity int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cartItems {
		if s.cartItems[i].UserID == userID && s.cartItems[i].ProductID == productID {
			s.cartItems[i].Quantity += quantity
			item := s.cartItems[i]
			return &item, nil
		}
	}

	ids := make([]int, len(s.cartItems))
	for i, item := range s.cartItems {
		ids[i] = item.ID
	}
	item := domain.CartItem{
		ID:        nextID(ids),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}
	s.cartItems = append(s.cartItems, item)
	return &item, nil
}

// UpdateCartItemQuantity overwrites the quantity; a value <= 0 deletes
// the row instead of persisting a non-positive quantity.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, userID string, productID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cartItems {
		if s.cartItems[i].UserID != userID || s.cartItems[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			s.cartItems = append(s.cartItems[:i], s.cartItems[i+1:]...)
		} else {
			s.cartItems[i].Quantity = quantity
		}
		return nil
	}
	return domain.ErrCartItemNotFound
}

// RemoveFromCart deletes the row if present; absence is not an error.
func (s *Store) RemoveFromCart(ctx context.Context, userID string, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cartItems {
		if s.cartItems[i].UserID == userID && s.cartItems[i].ProductID == productID {
			s.cartItems = append(s.cartItems[:i], s.cartItems[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCartLocked(userID)
	return nil
}

// clearCartLocked requires s.mu held.
func (s *Store) clearCartLocked(userID string) {
	kept := s.cartItems[:0]
	for _, item := range s.cartItems {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	s.cartItems = kept
}

// Order operations

// GetOrders returns every order joined against its owner. Orders whose
// user record is missing are dropped.
func (s *Store) GetOrders(ctx context.Context) ([]domain.OrderWithUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.OrderWithUser, 0, len(s.orders))
	for _, order := range s.orders {
		var owner *domain.User
		for i := range s.users {
			if s.users[i].ID == order.UserID {
				owner = &s.users[i]
				break
			}
		}
		if owner == nil {
			continue
		}
		out = append(out, domain.OrderWithUser{Order: order, User: *owner})
	}
	return out, nil
}

func (s *Store) GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

// GetOrder resolves order lines against the current catalog. Lines whose
// product has been deleted are dropped from the detail view.
func (s *Store) GetOrder(ctx context.Context, id int) (*domain.OrderDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var order *domain.Order
	for i := range s.orders {
		if s.orders[i].ID == id {
			o := s.orders[i]
			order = &o
			break
		}
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	items := make([]domain.OrderLineDetail, 0)
	for _, line := range s.orderLines {
		if line.OrderID != id {
			continue
		}
		product, err := s.findProduct(line.ProductID)
		if err != nil {
			continue
		}
		items = append(items, domain.OrderLineDetail{
			Product:  *product,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return &domain.OrderDetail{Order: *order, OrderItems: items}, nil
}

// CreateOrder inserts the order row and its lines and clears the owning
// user's cart under one lock, so no caller observes partial state.
func (s *Store) CreateOrder(ctx context.Context, input domain.OrderInput, lines []domain.OrderLineInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderIDs := make([]int, len(s.orders))
	for i, o := range s.orders {
		orderIDs[i] = o.ID
	}
	now := time.Now()
	status := input.Status
	if status == "" {
		status = domain.OrderPending
	}
	order := domain.Order{
		ID:              nextID(orderIDs),
		UserID:          input.UserID,
		Status:          status,
		Total:           input.Total,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders = append(s.orders, order)

	for _, line := range lines {
		lineIDs := make([]int, len(s.orderLines))
		for i, l := range s.orderLines {
			lineIDs[i] = l.ID
		}
		s.orderLines = append(s.orderLines, domain.OrderLine{
			ID:        nextID(lineIDs),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	s.clearCartLocked(input.UserID)
	return &order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = time.Now()
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

// Session operations

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, *session)
	return nil
}

func (s *Store) GetSession(ctx context.Context, sid string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].SID == sid {
			sess := s.sessions[i]
			return &sess, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

// UpdateSession upserts: a missing sid is inserted rather than rejected.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].SID == session.SID {
			s.sessions[i] = *session
			return nil
		}
	}
	s.sessions = append(s.sessions, *session)
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].SID == sid {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.Store = (*Store)(nil)
