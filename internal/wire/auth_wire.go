package wire

import (
	"net/http"

	"salty-fish/internal/adaptor"
	"salty-fish/pkg/middleware"
	"salty-fish/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	handler *adaptor.Handler,
	authenticate func(http.Handler) http.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.With(middleware.RateLimit(config.OTP.RateLimit, config.App.TrustProxy, log)).Post("/request-otp", handler.Auth.RequestOTP)
		r.Post("/verify-otp", handler.Auth.VerifyOTP)
		r.Post("/refresh-token", handler.Auth.RefreshToken)

		// ==================== PROTECTED ROUTES ====================
		r.With(authenticate).Post("/logout", handler.Auth.Logout)
		r.With(authenticate).Post("/me", handler.User.GetMe)
	})
}
