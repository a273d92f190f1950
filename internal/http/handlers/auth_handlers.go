package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
	"github.com/EthanNaitwe/KampalaGrocery/internal/http/middleware"
)

// AuthHandlers handles the phone-OTP authentication HTTP surface.
type AuthHandlers struct {
	authSvc    domain.AuthService
	sessionTTL time.Duration
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(authSvc domain.AuthService, sessionTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, sessionTTL: sessionTTL}
}

// SendOtpRequest represents an OTP issuance request
type SendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,e164"`
}

// VerifyOtpRequest represents an OTP verification request
type VerifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Otp         string `json:"otp" binding:"required"`
}

// SendOtp handles POST /api/auth/send-otp
func (h *AuthHandlers) SendOtp(c *gin.Context) {
	var req SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid phone number"})
		return
	}

	if err := h.authSvc.SendOtp(c.Request.Context(), req.PhoneNumber); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send OTP"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// VerifyOtp handles POST /api/auth/verify-otp
func (h *AuthHandlers) VerifyOtp(c *gin.Context) {
	var req VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	user, session, err := h.authSvc.VerifyOtp(c.Request.Context(), req.PhoneNumber, req.Otp)
	if err != nil {
		if errors.Is(err, domain.ErrOTPInvalidOrExpired) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify OTP"})
		return
	}

	c.SetCookie(middleware.SessionCookie, session.SID, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully", "user": user})
}

// User handles GET /api/auth/user
func (h *AuthHandlers) User(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	sid, err := c.Cookie(middleware.SessionCookie)
	if err == nil && sid != "" {
		if err := h.authSvc.Logout(c.Request.Context(), sid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to logout"})
			return
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
