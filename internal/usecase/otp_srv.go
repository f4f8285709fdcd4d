package usecase

import (
	"context"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository"
	"salty-fish/pkg/utils"

	"go.uber.org/zap"
)

// OTPService issues and checks one-time login codes. Codes are returned to the
// caller for delivery and never logged or stored in the clear.
type OTPService interface {
	RequestChallenge(ctx context.Context, email, phone string) (*entity.User, string, error)
	Verify(ctx context.Context, email, phone, code string) (*entity.User, error)
}

type otpService struct {
	users  repository.UserRepository
	config utils.OTPConfig
	now    func() time.Time
	log    *zap.Logger
}

func NewOTPService(users repository.UserRepository, config utils.OTPConfig, log *zap.Logger) OTPService {
	return &otpService{
		users:  users,
		config: config,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With(zap.String("service", "otp")),
	}
}

func (s *otpService) RequestChallenge(ctx context.Context, email, phone string) (*entity.User, string, error) {
	if email == "" && phone == "" {
		return nil, "", utils.NewValidationError("Email or phone number required")
	}

	user, err := s.users.FindOrCreate(ctx, email, phone)
	if err != nil {
		return nil, "", utils.NewInternalError("failed to load user", err)
	}

	code, err := utils.GenerateOTP(s.config.Length)
	if err != nil {
		return nil, "", utils.NewInternalError("failed to generate OTP", err)
	}
	hash, err := utils.HashOTP(code, s.config.BcryptCost)
	if err != nil {
		return nil, "", utils.NewInternalError("failed to hash OTP", err)
	}

	// a new challenge replaces any earlier one
	user.SetChallenge(hash, s.now().Add(s.config.Expiry))

	if err := s.users.Save(ctx, user); err != nil {
		return nil, "", utils.NewInternalError("failed to store OTP", err)
	}

	s.log.Info("OTP challenge issued", zap.String("user_id", user.ID.String()))
	return user, code, nil
}

// Verify consumes the live challenge. It is the only place a user becomes active.
func (s *otpService) Verify(ctx context.Context, email, phone, code string) (*entity.User, error) {
	if email == "" && phone == "" {
		return nil, utils.NewValidationError("Email or phone number required")
	}

	user, err := s.users.FindByIdentifier(ctx, email, phone)
	if err != nil {
		return nil, utils.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User not found")
	}

	invalid := utils.NewInvalidCredentialError("Invalid or expired OTP")
	if !user.HasChallenge() {
		return nil, invalid
	}
	if !s.now().Before(*user.OTPExpiresAt) {
		return nil, invalid
	}
	if !utils.CompareOTP(code, *user.OTPHash) {
		s.log.Warn("OTP mismatch", zap.String("user_id", user.ID.String()))
		return nil, invalid
	}

	user.ClearChallenge()
	user.Active = true

	if err := s.users.Save(ctx, user); err != nil {
		return nil, utils.NewInternalError("failed to update user", err)
	}

	return user, nil
}
