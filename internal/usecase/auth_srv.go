package usecase

import (
	"context"
	"time"

	"salty-fish/internal/dto/request"
	"salty-fish/internal/dto/response"
	"salty-fish/pkg/metrics"
	"salty-fish/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPDeliverer sends a code to whichever identifier the user has.
type OTPDeliverer interface {
	DeliverOTP(ctx context.Context, email, phone, code string) error
}

// LoginResult carries the issued tokens together with the safe user view.
type LoginResult struct {
	Session *Session
	User    response.UserResponse
}

type AuthService interface {
	RequestOTP(ctx context.Context, req *request.RequestOTPRequest) error
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*LoginResult, error)
	RefreshToken(ctx context.Context, rawRefreshToken, deviceID string) (*AccessToken, error)
	Logout(ctx context.Context, userID uuid.UUID, deviceID string) error
}

type authService struct {
	otp      OTPService
	tokens   TokenService
	notifier OTPDeliverer
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewAuthService(
	otp OTPService,
	tokens TokenService,
	notifier OTPDeliverer,
	m *metrics.Metrics,
	log *zap.Logger,
) AuthService {
	return &authService{
		otp:      otp,
		tokens:   tokens,
		notifier: notifier,
		metrics:  m,
		log:      log.With(zap.String("service", "auth")),
	}
}

// RequestOTP issues a challenge and hands the code to the notifier. Delivery
// is attempted once; a failure is reported to the caller as-is.
func (s *authService) RequestOTP(ctx context.Context, req *request.RequestOTPRequest) (err error) {
	defer func() { s.metrics.AuthEvent("request_otp", err) }()

	req.Normalize()
	user, code, err := s.otp.RequestChallenge(ctx, req.Email, req.PhoneNumber)
	if err != nil {
		return err
	}

	email, phone := "", ""
	if user.Email != nil {
		email = *user.Email
	}
	if user.PhoneNumber != nil {
		phone = *user.PhoneNumber
	}

	if err := s.notifier.DeliverOTP(ctx, email, phone, code); err != nil {
		s.log.Warn("OTP delivery failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()))
		return err
	}

	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (result *LoginResult, err error) {
	defer func() { s.metrics.AuthEvent("verify_otp", err) }()

	req.Normalize()
	if (req.Email == "" && req.PhoneNumber == "") || req.OTP == "" || req.DeviceID == "" {
		return nil, utils.NewValidationError("Email, OTP, and device ID required")
	}

	user, err := s.otp.Verify(ctx, req.Email, req.PhoneNumber, req.OTP)
	if err != nil {
		return nil, err
	}

	session, err := s.tokens.IssueSession(ctx, user.ID, req.DeviceID)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("device_id", req.DeviceID))

	return &LoginResult{
		Session: session,
		User:    response.UserToResponse(user),
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, rawRefreshToken, deviceID string) (token *AccessToken, err error) {
	defer func() { s.metrics.AuthEvent("refresh_token", err) }()
	return s.tokens.Refresh(ctx, rawRefreshToken, deviceID)
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, deviceID string) (err error) {
	defer func() { s.metrics.AuthEvent("logout", err) }()
	return s.tokens.Revoke(ctx, userID, deviceID)
}

// ExpiresInMillis is the refresh response's expiresIn value.
func (t *AccessToken) ExpiresInMillis() int64 {
	return int64(t.TTL / time.Millisecond)
}
