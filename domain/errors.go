package domain

import "errors"

// Lookup errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrSessionNotFound  = errors.New("session not found")
)

// OTP errors
var (
	ErrOTPInvalidOrExpired = errors.New("invalid or expired otp")
	ErrOTPSendFailed       = errors.New("failed to send otp")
)

// Auth errors
var (
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrSessionExpired = errors.New("session has expired")
)

// Domain validation errors
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)
