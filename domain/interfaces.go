package domain

import "context"

// Store is the record-store contract every physical backend implements.
// The in-memory store, the Sheets store and the fallback façade all
// satisfy it, so callers never know which backend served a request.
//
// Lookups return the *NotFound sentinel of their entity when the id
// misses. Integer ids are assigned as max(existing)+1, so gaps left by
// deletes are permanent.
type Store interface {
	// User operations
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error)

	// OTP challenge operations
	CreateOtpChallenge(ctx context.Context, challenge *OtpChallenge) (*OtpChallenge, error)
	GetOtpChallenge(ctx context.Context, phoneNumber, code string) (*OtpChallenge, error)
	MarkOtpVerified(ctx context.Context, id string) error

	// Category operations
	GetCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*Category, error)

	// Product operations
	GetProducts(ctx context.Context, categoryID int) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int, update ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error
	SearchProducts(ctx context.Context, query string) ([]Product, error)

	// Cart operations
	GetCartItems(ctx context.Context, userID string) ([]CartEntry, error)
	AddToCart(ctx context.Context, userID string, productID, quantity int) (*CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, userID string, productID, quantity int) error
	RemoveFromCart(ctx context.Context, userID string, productID int) error
	ClearCart(ctx context.Context, userID string) error

	// Order operations
	GetOrders(ctx context.Context) ([]OrderWithUser, error)
	GetUserOrders(ctx context.Context, userID string) ([]Order, error)
	GetOrder(ctx context.Context, id int) (*OrderDetail, error)
	CreateOrder(ctx context.Context, input OrderInput, lines []OrderLineInput) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) (*Order, error)

	// Session operations
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sid string) (*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, sid string) error
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
}

// AuthService defines the phone-OTP authentication flow
type AuthService interface {
	SendOtp(ctx context.Context, phoneNumber string) error
	VerifyOtp(ctx context.Context, phoneNumber, code string) (*User, *Session, error)
	CurrentUser(ctx context.Context, sid string) (*User, error)
	Logout(ctx context.Context, sid string) error
}

// CartService defines cart business logic
type CartService interface {
	List(ctx context.Context, userID string) ([]CartEntry, error)
	Add(ctx context.Context, userID string, productID, quantity int) (*CartItem, error)
	SetQuantity(ctx context.Context, userID string, productID, quantity int) error
	Remove(ctx context.Context, userID string, productID int) error
	Clear(ctx context.Context, userID string) error
}

// CheckoutInput carries the customer contact fields of a checkout.
type CheckoutInput struct {
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Notes           string
}

// OrderService defines order business logic
type OrderService interface {
	Checkout(ctx context.Context, userID string, input CheckoutInput) (*Order, error)
	OrdersForAdmin(ctx context.Context) ([]OrderWithUser, error)
	OrdersForUser(ctx context.Context, userID string) ([]Order, error)
	Order(ctx context.Context, id int) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, id int, status string) (*Order, error)
}
