package usecase

import (
	"context"
	"errors"
	"testing"

	"salty-fish/internal/data/repository/repotest"
	"salty-fish/internal/dto/request"
	"salty-fish/pkg/metrics"
	"salty-fish/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func newTestAuth(t *testing.T, notifier OTPDeliverer) (*repotest.UserRepo, AuthService, *metrics.Metrics) {
	t.Helper()
	users := repotest.NewUserRepo()
	clock := newClock()
	m := metrics.New()
	auth := NewAuthService(newTestOTP(users, clock), newTestTokens(users, clock), notifier, m, zap.NewNop())
	return users, auth, m
}

func TestRequestOTP_DeliversCode(t *testing.T) {
	notifier := &captureNotifier{}
	users, auth, m := newTestAuth(t, notifier)

	req := &request.RequestOTPRequest{Email: "  Buyer@Example.com "}
	if err := auth.RequestOTP(context.Background(), req); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}

	if notifier.calls != 1 {
		t.Fatalf("deliveries = %d, want 1", notifier.calls)
	}
	if notifier.email != "buyer@example.com" {
		t.Errorf("email = %q, want normalized address", notifier.email)
	}
	if len(notifier.code) != 6 {
		t.Errorf("code = %q", notifier.code)
	}

	user, err := users.FindByIdentifier(context.Background(), "buyer@example.com", "")
	if err != nil || user == nil {
		t.Fatalf("user not created: %v", err)
	}
	if !utils.CompareOTP(notifier.code, *user.OTPHash) {
		t.Error("delivered code should match the stored challenge")
	}

	if got := testutil.ToFloat64(m.AuthEvents.WithLabelValues("request_otp", metrics.OutcomeSuccess)); got != 1 {
		t.Errorf("request_otp success = %v, want 1", got)
	}
}

func TestRequestOTP_DeliveryFailure(t *testing.T) {
	notifier := &captureNotifier{err: utils.NewUnavailableError("Zoho Mail service unreachable", errors.New("dial tcp"))}
	_, auth, m := newTestAuth(t, notifier)

	err := auth.RequestOTP(context.Background(), &request.RequestOTPRequest{Email: "a@example.com"})
	wantKind(t, err, utils.KindUnavailable, "Zoho Mail service unreachable")

	if got := testutil.ToFloat64(m.AuthEvents.WithLabelValues("request_otp", metrics.OutcomeFailure)); got != 1 {
		t.Errorf("request_otp failure = %v, want 1", got)
	}
}

func TestVerifyOTP_RequiresFields(t *testing.T) {
	_, auth, _ := newTestAuth(t, &captureNotifier{})

	tests := []request.VerifyOTPRequest{
		{OTP: "123456", DeviceID: "phone"},
		{Email: "a@example.com", DeviceID: "phone"},
		{Email: "a@example.com", OTP: "123456"},
	}
	for _, req := range tests {
		_, err := auth.VerifyOTP(context.Background(), &req)
		wantKind(t, err, utils.KindValidation, "Email, OTP, and device ID required")
	}
}

func TestAuthFlow(t *testing.T) {
	notifier := &captureNotifier{}
	_, auth, _ := newTestAuth(t, notifier)
	ctx := context.Background()

	if err := auth.RequestOTP(ctx, &request.RequestOTPRequest{PhoneNumber: "9876543210"}); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if notifier.phone != "9876543210" {
		t.Fatalf("phone = %q", notifier.phone)
	}

	login, err := auth.VerifyOTP(ctx, &request.VerifyOTPRequest{
		PhoneNumber: "9876543210",
		OTP:         notifier.code,
		DeviceID:    "phone",
	})
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if !login.User.Active {
		t.Error("user should be active after login")
	}
	if login.Session.AccessToken == "" || login.Session.RefreshToken == "" {
		t.Fatal("session tokens should be set")
	}

	if _, err := auth.RefreshToken(ctx, login.Session.RefreshToken, "phone"); err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}

	uid, err := uuid.Parse(login.User.ID)
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if err := auth.Logout(ctx, uid, "phone"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	_, err = auth.RefreshToken(ctx, login.Session.RefreshToken, "phone")
	wantKind(t, err, utils.KindUnauthorized, "Invalid refresh token")
}
