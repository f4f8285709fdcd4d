package adaptor

import (
	"net/http"
	"time"

	"salty-fish/internal/dto/request"
	"salty-fish/internal/dto/response"
	"salty-fish/internal/usecase"
	"salty-fish/pkg/middleware"
	"salty-fish/pkg/utils"

	"go.uber.org/zap"
)

// accessCookieTTL keeps the jwt cookie around for a day; the token inside
// still expires on its own schedule.
const accessCookieTTL = 24 * time.Hour

type AuthHandler struct {
	service      usecase.AuthService
	cookieSecure bool
	refreshTTL   time.Duration
	log          *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieSecure: config.App.CookieSecure,
		refreshTTL:   config.JWT.RefreshTTL,
		log:          log.With(zap.String("handler", "auth")),
	}
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

// RequestOTP handles POST /api/v1/auth/request-otp
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req request.RequestOTPRequest
	if !bind(w, r, &req) {
		return
	}

	if err := h.service.RequestOTP(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "request OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP sent successfully", nil)
}

// VerifyOTP handles POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !bind(w, r, &req) {
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "verify OTP")
		return
	}

	h.setCookie(w, middleware.AccessCookie, result.Session.AccessToken, accessCookieTTL)
	h.setCookie(w, middleware.RefreshCookie, result.Session.RefreshToken, h.refreshTTL)

	utils.WriteJSON(w, http.StatusOK, response.LoginResponse{
		Status:      utils.StatusSuccess,
		Message:     "Login successful",
		AccessToken: result.Session.AccessToken,
		RefreshToken: response.RefreshTokenResponse{
			RefreshToken: result.Session.RefreshToken,
			ExpiresAt:    result.Session.RefreshExpiresAt,
		},
		User: result.User,
	})
}

// RefreshToken handles POST /api/v1/auth/refresh-token. The refreshToken
// cookie wins over a bearer header here.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	raw := ""
	if c, err := r.Cookie(middleware.RefreshCookie); err == nil {
		raw = c.Value
	}
	if raw == "" {
		raw = middleware.BearerToken(r)
	}

	token, err := h.service.RefreshToken(r.Context(), raw, middleware.DeviceID(r))
	if err != nil {
		handleServiceError(h.log, w, err, "refresh token")
		return
	}

	h.setCookie(w, middleware.AccessCookie, token.Token, accessCookieTTL)

	utils.WriteJSON(w, http.StatusOK, response.RefreshResponse{
		Status:      utils.StatusSuccess,
		AccessToken: token.Token,
		ExpiresIn:   token.ExpiresInMillis(),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseError(w, utils.NewAuthError("Not logged in"))
		return
	}
	deviceID, _ := utils.GetDeviceIDFromContext(r.Context())

	if err := h.service.Logout(r.Context(), userID, deviceID); err != nil {
		handleServiceError(h.log, w, err, "logout")
		return
	}

	h.clearCookie(w, middleware.AccessCookie)
	h.clearCookie(w, middleware.RefreshCookie)

	utils.ResponseSuccess(w, "Logged out successfully", nil)
}
