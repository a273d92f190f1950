package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

var authLogger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "auth").Logger()

// AuthServiceImpl implements domain.AuthService: phone-OTP issuance and
// verification, user find-or-create, and cookie sessions persisted in
// the record store.
type AuthServiceImpl struct {
	store           domain.Store
	notificationSvc domain.NotificationService
	config          AuthConfig
}

type AuthConfig struct {
	OTPLength  int
	OTPTTL     time.Duration
	SessionTTL time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(store domain.Store, notificationSvc domain.NotificationService, config AuthConfig) domain.AuthService {
	return &AuthServiceImpl{
		store:           store,
		notificationSvc: notificationSvc,
		config:          config,
	}
}

// SendOtp generates a numeric code, records the challenge, and
// dispatches it over SMS. The challenge row is written before dispatch;
// a dispatch failure leaves it behind unverified, which is harmless
// since it can only be consumed by someone who received the code.
func (s *AuthServiceImpl) SendOtp(ctx context.Context, phoneNumber string) error {
	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp code: %w", err)
	}

	challenge := &domain.OtpChallenge{
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   time.Now().Add(s.config.OTPTTL),
	}
	if _, err := s.store.CreateOtpChallenge(ctx, challenge); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}

	message := fmt.Sprintf("Your verification code is: %s. This code will expire in %d minutes.", code, int(s.config.OTPTTL.Minutes()))
	if err := s.notificationSvc.SendSMS(phoneNumber, message); err != nil {
		authLogger.Error().Err(err).Str("phone", phoneNumber).Msg("sms dispatch failed")
		return domain.ErrOTPSendFailed
	}
	return nil
}

// VerifyOtp consumes the most recent valid challenge for the pair,
// finds or creates the user, and opens a session bound to the user and
// phone number.
func (s *AuthServiceImpl) VerifyOtp(ctx context.Context, phoneNumber, code string) (*domain.User, *domain.Session, error) {
	challenge, err := s.store.GetOtpChallenge(ctx, phoneNumber, code)
	if err != nil {
		return nil, nil, domain.ErrOTPInvalidOrExpired
	}

	// Single use: a verified challenge never matches again.
	if err := s.store.MarkOtpVerified(ctx, challenge.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to consume otp challenge: %w", err)
	}

	user, err := s.store.GetUserByPhone(ctx, phoneNumber)
	if err != nil {
		user, err = s.store.CreateUser(ctx, &domain.User{PhoneNumber: phoneNumber})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	session := &domain.Session{
		SID: uuid.NewString(),
		Data: domain.SessionData{
			UserID:      user.ID,
			PhoneNumber: user.PhoneNumber,
		},
		Expire: time.Now().Add(s.config.SessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return user, session, nil
}

// CurrentUser resolves a sid to its user. A request is authenticated
// only while the session is unexpired and its userId still resolves to
// an existing user. The session expiry slides forward on each call.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	session, err := s.store.GetSession(ctx, sid)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if session.Expire.Before(time.Now()) {
		if err := s.store.DeleteSession(ctx, sid); err != nil {
			authLogger.Warn().Err(err).Msg("failed to delete expired session")
		}
		return nil, domain.ErrSessionExpired
	}

	user, err := s.store.GetUser(ctx, session.Data.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	session.Expire = time.Now().Add(s.config.SessionTTL)
	if err := s.store.UpdateSession(ctx, session); err != nil {
		authLogger.Warn().Err(err).Msg("failed to refresh session")
	}
	return user, nil
}

// Logout drops the session; an unknown sid is not an error.
func (s *AuthServiceImpl) Logout(ctx context.Context, sid string) error {
	return s.store.DeleteSession(ctx, sid)
}

// generateSecureCode generates a cryptographically secure numeric code.
func (s *AuthServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.OTPLength)
	for i := 0; i < s.config.OTPLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*AuthServiceImpl)(nil)
