package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
	"github.com/EthanNaitwe/KampalaGrocery/internal/infrastructure/storage/memory"
	"github.com/EthanNaitwe/KampalaGrocery/internal/mocks"
)

func newAuthFixture(t *testing.T) (domain.AuthService, *memory.Store, *mocks.MockNotificationService) {
	t.Helper()
	store := memory.NewStore()
	sms := mocks.NewMockNotificationService()
	svc := NewAuthService(store, sms, AuthConfig{
		OTPLength:  4,
		OTPTTL:     10 * time.Minute,
		SessionTTL: 7 * 24 * time.Hour,
	})
	return svc, store, sms
}

// extractCode pulls the numeric code out of the dispatched SMS text.
func extractCode(t *testing.T, message string) string {
	t.Helper()
	const prefix = "Your verification code is: "
	if !strings.HasPrefix(message, prefix) {
		t.Fatalf("unexpected sms body: %q", message)
	}
	rest := message[len(prefix):]
	end := strings.Index(rest, ".")
	if end < 0 {
		t.Fatalf("unexpected sms body: %q", message)
	}
	return rest[:end]
}

func TestSendOtpDispatchesCode(t *testing.T) {
	svc, store, sms := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}

	sent := sms.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 sms, got %d", len(sent))
	}
	if sent[0].To != "+256700000001" {
		t.Errorf("expected sms to +256700000001, got %s", sent[0].To)
	}

	code := extractCode(t, sent[0].Message)
	if len(code) != 4 {
		t.Errorf("expected 4-digit code, got %q", code)
	}

	// The challenge row must be consumable with the dispatched code.
	if _, err := store.GetOtpChallenge(ctx, "+256700000001", code); err != nil {
		t.Errorf("challenge not stored: %v", err)
	}
}

func TestSendOtpSurfacesDispatchFailure(t *testing.T) {
	svc, _, sms := newAuthFixture(t)
	sms.SendSMSFunc = func(to, message string) error {
		return errors.New("twilio down")
	}

	err := svc.SendOtp(context.Background(), "+256700000001")
	if !errors.Is(err, domain.ErrOTPSendFailed) {
		t.Fatalf("expected ErrOTPSendFailed, got %v", err)
	}
}

func TestVerifyOtpCreatesUserAndSession(t *testing.T) {
	svc, store, sms := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}
	code := extractCode(t, sms.Sent()[0].Message)

	user, session, err := svc.VerifyOtp(ctx, "+256700000001", code)
	if err != nil {
		t.Fatalf("VerifyOtp: %v", err)
	}
	if user.PhoneNumber != "+256700000001" {
		t.Errorf("expected phone +256700000001, got %s", user.PhoneNumber)
	}
	if user.ID == "" {
		t.Error("expected user id to be assigned")
	}
	if session.SID == "" {
		t.Error("expected session id to be assigned")
	}
	if session.Data.UserID != user.ID {
		t.Errorf("session bound to %s, want %s", session.Data.UserID, user.ID)
	}
	if !session.Expire.After(time.Now().Add(6 * 24 * time.Hour)) {
		t.Error("expected roughly week-long session")
	}

	stored, err := store.GetSession(ctx, session.SID)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.Data.PhoneNumber != "+256700000001" {
		t.Errorf("expected session phone +256700000001, got %s", stored.Data.PhoneNumber)
	}
}

func TestVerifyOtpReusesExistingUser(t *testing.T) {
	svc, store, sms := newAuthFixture(t)
	ctx := context.Background()

	existing, err := store.CreateUser(ctx, &domain.User{PhoneNumber: "+256700000001"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}
	code := extractCode(t, sms.Sent()[0].Message)

	user, _, err := svc.VerifyOtp(ctx, "+256700000001", code)
	if err != nil {
		t.Fatalf("VerifyOtp: %v", err)
	}
	if user.ID != existing.ID {
		t.Errorf("expected existing user %s, got %s", existing.ID, user.ID)
	}
}

func TestVerifyOtpIsSingleUse(t *testing.T) {
	svc, _, sms := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}
	code := extractCode(t, sms.Sent()[0].Message)

	if _, _, err := svc.VerifyOtp(ctx, "+256700000001", code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	_, _, err := svc.VerifyOtp(ctx, "+256700000001", code)
	if !errors.Is(err, domain.ErrOTPInvalidOrExpired) {
		t.Fatalf("expected ErrOTPInvalidOrExpired on replay, got %v", err)
	}
}

func TestVerifyOtpRejectsWrongCode(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}

	// A 5-char code can never equal a generated 4-digit one.
	_, _, err := svc.VerifyOtp(ctx, "+256700000001", "00000")
	if !errors.Is(err, domain.ErrOTPInvalidOrExpired) {
		t.Fatalf("expected ErrOTPInvalidOrExpired, got %v", err)
	}
}

func TestVerifyOtpRejectsExpiredChallenge(t *testing.T) {
	store := memory.NewStore()
	sms := mocks.NewMockNotificationService()
	svc := NewAuthService(store, sms, AuthConfig{
		OTPLength:  4,
		OTPTTL:     -time.Minute, // already expired when stored
		SessionTTL: time.Hour,
	})
	ctx := context.Background()

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}
	code := extractCode(t, sms.Sent()[0].Message)

	_, _, err := svc.VerifyOtp(ctx, "+256700000001", code)
	if !errors.Is(err, domain.ErrOTPInvalidOrExpired) {
		t.Fatalf("expected ErrOTPInvalidOrExpired, got %v", err)
	}
}

func TestCurrentUserSlidesExpiry(t *testing.T) {
	svc, store, sms := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}
	code := extractCode(t, sms.Sent()[0].Message)
	user, session, err := svc.VerifyOtp(ctx, "+256700000001", code)
	if err != nil {
		t.Fatalf("VerifyOtp: %v", err)
	}

	// Age the session artificially, then touch it.
	aged := *session
	aged.Expire = time.Now().Add(time.Minute)
	if err := store.UpdateSession(ctx, &aged); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	got, err := svc.CurrentUser(ctx, session.SID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}

	refreshed, err := store.GetSession(ctx, session.SID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !refreshed.Expire.After(time.Now().Add(6 * 24 * time.Hour)) {
		t.Error("expected expiry to slide forward on access")
	}
}

func TestCurrentUserRejectsExpiredSession(t *testing.T) {
	svc, store, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, &domain.User{PhoneNumber: "+256700000001"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	sess := &domain.Session{
		SID:    "stale",
		Data:   domain.SessionData{UserID: user.ID, PhoneNumber: user.PhoneNumber},
		Expire: time.Now().Add(-time.Minute),
	}
	if err := store.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	_, err = svc.CurrentUser(ctx, "stale")
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	// The expired row is reaped.
	if _, err := store.GetSession(ctx, "stale"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected expired session to be deleted, got %v", err)
	}
}

func TestCurrentUserRejectsUnknownSid(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.CurrentUser(context.Background(), "nope")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogoutDropsSession(t *testing.T) {
	svc, store, sms := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.SendOtp(ctx, "+256700000001"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}
	code := extractCode(t, sms.Sent()[0].Message)
	_, session, err := svc.VerifyOtp(ctx, "+256700000001", code)
	if err != nil {
		t.Fatalf("VerifyOtp: %v", err)
	}

	if err := svc.Logout(ctx, session.SID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := store.GetSession(ctx, session.SID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected session gone, got %v", err)
	}

	// Logging out twice is harmless.
	if err := svc.Logout(ctx, session.SID); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}
