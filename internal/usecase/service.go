package usecase

import (
	"salty-fish/internal/data/repository"
	"salty-fish/pkg/metrics"
	"salty-fish/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth  AuthService
	Token TokenService
	OTP   OTPService
	User  UserService
	Item  ItemService
}

func NewService(repo *repository.Repository, config *utils.Config, notifier OTPDeliverer, m *metrics.Metrics, log *zap.Logger) *Service {
	otp := NewOTPService(repo.User, config.OTP, log)
	tokens := NewTokenService(repo.User, config.JWT, log)

	return &Service{
		Auth:  NewAuthService(otp, tokens, notifier, m, log),
		Token: tokens,
		OTP:   otp,
		User:  NewUserService(repo.User, repo.Item, log),
		Item:  NewItemService(repo.Item, log),
	}
}
