package sheets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

// Store implements domain.Store over a RowAPI. Every lookup is a linear
// scan of the table; update and delete address the row by the offset at
// which the scan found it, so each mutation re-reads the table first.
type Store struct {
	api RowAPI
}

// NewStore creates a Sheets-backed store.
func NewStore(api RowAPI) *Store {
	return &Store{api: api}
}

// Init idempotently creates every entity table with its header row.
func (s *Store) Init(ctx context.Context) error {
	for _, table := range []string{
		tableUsers, tableOtp, tableCategories, tableProducts,
		tableOrders, tableOrderItems, tableCartItems, tableSessions,
	} {
		if err := s.api.EnsureTable(ctx, table, tableHeaders[table]); err != nil {
			return err
		}
	}
	return nil
}

// User operations

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	rows, err := s.api.Rows(ctx, tableUsers)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cell(row, 0) == id {
			u := decodeUser(row)
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) GetUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	rows, err := s.api.Rows(ctx, tableUsers)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cell(row, 1) == phoneNumber {
			u := decodeUser(row)
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.api.Append(ctx, tableUsers, encodeUser(&u)); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	rows, err := s.api.Rows(ctx, tableUsers)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if cell(row, 0) != id {
			continue
		}
		u := decodeUser(row)
		if update.FirstName != nil {
			u.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			u.LastName = *update.LastName
		}
		if update.IsAdmin != nil {
			u.IsAdmin = *update.IsAdmin
		}
		u.UpdatedAt = time.Now()
		if err := s.api.Update(ctx, tableUsers, i, encodeUser(&u)); err != nil {
			return nil, err
		}
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

// OTP challenge operations

func (s *Store) CreateOtpChallenge(ctx context.Context, challenge *domain.OtpChallenge) (*domain.OtpChallenge, error) {
	c := *challenge
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Verified = false
	c.CreatedAt = time.Now()
	if err := s.api.Append(ctx, tableOtp, encodeOtpChallenge(&c)); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetOtpChallenge(ctx context.Context, phoneNumber, code string) (*domain.OtpChallenge, error) {
	rows, err := s.api.Rows(ctx, tableOtp)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, row := range rows {
		c := decodeOtpChallenge(row)
		if c.PhoneNumber == phoneNumber && c.Code == code && !c.Verified && c.ExpiresAt.After(now) {
			return &c, nil
		}
	}
	return nil, domain.ErrOTPInvalidOrExpired
}

func (s *Store) MarkOtpVerified(ctx context.Context, id string) error {
	rows, err := s.api.Rows(ctx, tableOtp)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if cell(row, 0) != id {
			continue
		}
		c := decodeOtpChallenge(row)
		c.Verified = true
		return s.api.Update(ctx, tableOtp, i, encodeOtpChallenge(&c))
	}
	return domain.ErrOTPInvalidOrExpired
}

// Category operations

func (s *Store) GetCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.api.Rows(ctx, tableCategories)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, decodeCategory(row))
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	rows, err := s.api.Rows(ctx, tableCategories)
	if err != nil {
		return nil, err
	}
	cat := domain.Category{
		ID:        nextRowID(rows),
		Name:      input.Name,
		Icon:      input.Icon,
		CreatedAt: time.Now(),
	}
	if err := s.api.Append(ctx, tableCategories, encodeCategory(&cat)); err != nil {
		return nil, err
	}
	return &cat, nil
}

// nextRowID assigns max(existing)+1 over the id column, or 1 for an
// empty table. Unparseable cells count as 0.
func nextRowID(rows [][]string) int {
	max := 0
	for _, row := range rows {
		if id := parseInt(cell(row, 0)); id > max {
			max = id
		}
	}
	return max + 1
}

// Product operations

func (s *Store) GetProducts(ctx context.Context, categoryID int) ([]domain.Product, error) {
	rows, err := s.api.Rows(ctx, tableProducts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p := decodeProduct(row)
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	products, err := s.GetProducts(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *Store) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	rows, err := s.api.Rows(ctx, tableProducts)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := domain.Product{
		ID:          nextRowID(rows),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		CategoryID:  input.CategoryID,
		InStock:     input.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.api.Append(ctx, tableProducts, encodeProduct(&p)); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int, update domain.ProductUpdate) (*domain.Product, error) {
	rows, err := s.api.Rows(ctx, tableProducts)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if parseInt(cell(row, 0)) != id {
			continue
		}
		p := decodeProduct(row)
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.Description != nil {
			p.Description = *update.Description
		}
		if update.Price != nil {
			p.Price = *update.Price
		}
		if update.Image != nil {
			p.Image = *update.Image
		}
		if update.CategoryID != nil {
			p.CategoryID = *update.CategoryID
		}
		if update.InStock != nil {
			p.InStock = *update.InStock
		}
		p.UpdatedAt = time.Now()
		if err := s.api.Update(ctx, tableProducts, i, encodeProduct(&p)); err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	rows, err := s.api.Rows(ctx, tableProducts)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if parseInt(cell(row, 0)) == id {
			return s.api.Delete(ctx, tableProducts, i)
		}
	}
	return domain.ErrProductNotFound
}

func (s *Store) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.GetProducts(ctx, 0)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(query)
	out := make([]domain.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Cart operations

// GetCartItems joins the user's cart rows against the current catalog.
// Rows referencing a deleted product are dropped.
func (s *Store) GetCartItems(ctx context.Context, userID string) ([]domain.CartEntry, error) {
	rows, err := s.api.Rows(ctx, tableCartItems)
	if err != nil {
		return nil, err
	}
	products, err := s.GetProducts(ctx, 0)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CartEntry, 0)
	for _, row := range rows {
		item := decodeCartItem(row)
		if item.UserID != userID {
			continue
		}
		for _, p := range products {
			if p.ID == item.ProductID {
				out = append(out, domain.CartEntry{CartItem: item, Product: p})
				break
			}
		}
	}
	return out, nil
}

func (s *Store) AddToCart(ctx context.Context, userID string, productID, quantity int) (*domain.CartItem, error) {
	rows, err := s.api.Rows(ctx, tableCartItems)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		item := decodeCartItem(row)
		if item.UserID != userID || item.ProductID != productID {
			continue
		}
		item.Quantity += quantity
		if err := s.api.Update(ctx, tableCartItems, i, encodeCartItem(&item)); err != nil {
			return nil, err
		}
		return &item, nil
	}

	item := domain.CartItem{
		ID:        nextRowID(rows),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}
	if err := s.api.Append(ctx, tableCartItems, encodeCartItem(&item)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, userID string, productID, quantity int) error {
	rows, err := s.api.Rows(ctx, tableCartItems)
	if err != nil {
		return err
	}
	for i, row := range rows {
		item := decodeCartItem(row)
		if item.UserID != userID || item.ProductID != productID {
			continue
		}
		if quantity <= 0 {
			return s.api.Delete(ctx, tableCartItems, i)
		}
		item.Quantity = quantity
		return s.api.Update(ctx, tableCartItems, i, encodeCartItem(&item))
	}
	return domain.ErrCartItemNotFound
}

func (s *Store) RemoveFromCart(ctx context.Context, userID string, productID int) error {
	rows, err := s.api.Rows(ctx, tableCartItems)
	if err != nil {
		return err
	}
	for i, row := range rows {
		item := decodeCartItem(row)
		if item.UserID == userID && item.ProductID == productID {
			return s.api.Delete(ctx, tableCartItems, i)
		}
	}
	return nil
}

// ClearCart deletes the user's rows bottom to top so earlier deletes do
// not shift the offsets of rows still to be deleted.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	rows, err := s.api.Rows(ctx, tableCartItems)
	if err != nil {
		return err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if decodeCartItem(rows[i]).UserID != userID {
			continue
		}
		if err := s.api.Delete(ctx, tableCartItems, i); err != nil {
			return err
		}
	}
	return nil
}

// Order operations

// GetOrders joins every order against its owner. Orders whose user row
// is missing are dropped.
func (s *Store) GetOrders(ctx context.Context) ([]domain.OrderWithUser, error) {
	orderRows, err := s.api.Rows(ctx, tableOrders)
	if err != nil {
		return nil, err
	}
	userRows, err := s.api.Rows(ctx, tableUsers)
	if err != nil {
		return nil, err
	}

	users := make(map[string]domain.User, len(userRows))
	for _, row := range userRows {
		u := decodeUser(row)
		users[u.ID] = u
	}

	out := make([]domain.OrderWithUser, 0, len(orderRows))
	for _, row := range orderRows {
		order := decodeOrder(row)
		owner, ok := users[order.UserID]
		if !ok {
			continue
		}
		out = append(out, domain.OrderWithUser{Order: order, User: owner})
	}
	return out, nil
}

func (s *Store) GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := s.api.Rows(ctx, tableOrders)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	for _, row := range rows {
		order := decodeOrder(row)
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id int) (*domain.OrderDetail, error) {
	orderRows, err := s.api.Rows(ctx, tableOrders)
	if err != nil {
		return nil, err
	}
	var order *domain.Order
	for _, row := range orderRows {
		o := decodeOrder(row)
		if o.ID == id {
			order = &o
			break
		}
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	lineRows, err := s.api.Rows(ctx, tableOrderItems)
	if err != nil {
		return nil, err
	}
	products, err := s.GetProducts(ctx, 0)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderLineDetail, 0)
	for _, row := range lineRows {
		line := decodeOrderLine(row)
		if line.OrderID != id {
			continue
		}
		for _, p := range products {
			if p.ID == line.ProductID {
				items = append(items, domain.OrderLineDetail{
					Product:  p,
					Quantity: line.Quantity,
					Price:    line.Price,
				})
				break
			}
		}
	}
	return &domain.OrderDetail{Order: *order, OrderItems: items}, nil
}

// CreateOrder appends the order row, its line rows and clears the cart
// as a sequence of independent calls. There is no cross-call atomicity:
// a crash mid-sequence leaves partial state behind.
func (s *Store) CreateOrder(ctx context.Context, input domain.OrderInput, lines []domain.OrderLineInput) (*domain.Order, error) {
	orderRows, err := s.api.Rows(ctx, tableOrders)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	status := input.Status
	if status == "" {
		status = domain.OrderPending
	}
	order := domain.Order{
		ID:              nextRowID(orderRows),
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
	if err := s.api.Append(ctx, tableOrders, encodeOrder(&order)); err != nil {
		return nil, err
	}

	lineRows, err := s.api.Rows(ctx, tableOrderItems)
	if err != nil {
		return nil, err
	}
	startID := nextRowID(lineRows)
	for i, input := range lines {
		line := domain.OrderLine{
			ID:        startID + i,
			OrderID:   order.ID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			Price:     input.Price,
		}
		if err := s.api.Append(ctx, tableOrderItems, encodeOrderLine(&line)); err != nil {
			return nil, err
		}
	}

	if err := s.ClearCart(ctx, input.UserID); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int, status string) (*domain.Order, error) {
	rows, err := s.api.Rows(ctx, tableOrders)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if parseInt(cell(row, 0)) != id {
			continue
		}
		order := decodeOrder(row)
		order.Status = status
		order.UpdatedAt = time.Now()
		if err := s.api.Update(ctx, tableOrders, i, encodeOrder(&order)); err != nil {
			return nil, err
		}
		return &order, nil
	}
	return nil, domain.ErrOrderNotFound
}

// Session operations

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	return s.api.Append(ctx, tableSessions, encodeSession(session))
}

func (s *Store) GetSession(ctx context.Context, sid string) (*domain.Session, error) {
	rows, err := s.api.Rows(ctx, tableSessions)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cell(row, 0) == sid {
			sess := decodeSession(row)
			return &sess, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

// UpdateSession upserts: a missing sid is appended rather than rejected.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	rows, err := s.api.Rows(ctx, tableSessions)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if cell(row, 0) == session.SID {
			return s.api.Update(ctx, tableSessions, i, encodeSession(session))
		}
	}
	return s.api.Append(ctx, tableSessions, encodeSession(session))
}

func (s *Store) DeleteSession(ctx context.Context, sid string) error {
	rows, err := s.api.Rows(ctx, tableSessions)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if cell(row, 0) == sid {
			return s.api.Delete(ctx, tableSessions, i)
		}
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.Store = (*Store)(nil)
