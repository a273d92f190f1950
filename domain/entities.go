package domain

import "time"

// Order status values. The storefront never enforces legal transitions;
// any admin call may set any of these.
const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderPreparing      = "preparing"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
)

// ValidOrderStatus reports whether s is a member of the order status enum.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// User represents a storefront customer. Users are created on first
// successful OTP verification and never deleted.
type User struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserUpdate is a partial update applied to an existing user.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	IsAdmin   *bool
}

// OtpChallenge is a single-use verification code sent to a phone number.
// A challenge is usable only while Verified is false and ExpiresAt is in
// the future.
type OtpChallenge struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Category groups products. Immutable after creation.
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryInput carries the caller-supplied fields of a new category.
type CategoryInput struct {
	Name string
	Icon string
}

// Product is a catalog entry. Price is a decimal kept as a string; the
// store never does arithmetic on it.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Image       string    `json:"image,omitempty"`
	CategoryID  int       `json:"categoryId,omitempty"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput carries the caller-supplied fields of a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Image       string
	CategoryID  int
	InStock     bool
}

// ProductUpdate is a partial update applied to an existing product.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *string
	Image       *string
	CategoryID  *int
	InStock     *bool
}

// CartItem is one (user, product) pair pending purchase. The pair is
// unique per user; adding an existing pair merges quantities.
type CartItem struct {
	ID        int       `json:"id"`
	UserID    string    `json:"userId"`
	ProductID int       `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartEntry is a cart item joined against its current product record.
type CartEntry struct {
	CartItem
	Product Product `json:"product"`
}

// Order is an immutable snapshot of a checked-out cart plus a mutable
// fulfillment status. Total is captured at checkout and never recomputed.
type Order struct {
	ID              int       `json:"id"`
	UserID          string    `json:"userId"`
	Status          string    `json:"status"`
	Total           string    `json:"total"`
	CustomerEmail   string    `json:"customerEmail,omitempty"`
	CustomerPhone   string    `json:"customerPhone,omitempty"`
	DeliveryAddress string    `json:"deliveryAddress,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OrderInput carries the fields of a new order before ids and timestamps
// are assigned by the store.
type OrderInput struct {
	UserID          string
	Status          string
	Total           string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Notes           string
}

// OrderLine is one product position of an order. Price is the product
// price snapshotted at checkout time.
type OrderLine struct {
	ID        int    `json:"id"`
	OrderID   int    `json:"orderId"`
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// OrderLineInput carries one order line before id assignment.
type OrderLineInput struct {
	ProductID int
	Quantity  int
	Price     string
}

// OrderLineDetail is an order line joined against its current product.
type OrderLineDetail struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    string  `json:"price"`
}

// OrderWithUser is an order joined against its owner, as served to admins.
type OrderWithUser struct {
	Order
	User User `json:"user"`
}

// OrderDetail is an order with its lines resolved to products.
type OrderDetail struct {
	Order
	OrderItems []OrderLineDetail `json:"orderItems"`
}

// SessionData is the payload bound to a session at login.
type SessionData struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
}

// Session is a logged-in browser session keyed by sid. Expire slides
// forward on each authenticated request.
type Session struct {
	SID    string      `json:"sid"`
	Data   SessionData `json:"sess"`
	Expire time.Time   `json:"expire"`
}
