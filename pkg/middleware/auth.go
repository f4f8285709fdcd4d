package middleware

import (
	"errors"
	"net/http"
	"strings"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository"
	"salty-fish/internal/usecase"
	"salty-fish/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	AccessCookie  = "jwt"
	RefreshCookie = "refreshToken"
)

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// DeviceID reads the device-id header, falling back to x-device-id.
func DeviceID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("device-id")); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get("x-device-id"))
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Authenticate resolves the bearer of an access token and stores the user and
// device id on the request context. The header token wins over the jwt cookie.
func Authenticate(tokens usecase.TokenService, users repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	log := logger.With(zap.String("middleware", "authenticate"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				token = cookieValue(r, AccessCookie)
			}
			deviceID := DeviceID(r)

			if token == "" {
				utils.ResponseError(w, utils.NewAuthError("Not logged in"))
				return
			}
			if deviceID == "" {
				utils.ResponseError(w, utils.NewValidationError("Device ID is required"))
				return
			}

			claims, err := tokens.VerifyAccess(token)
			if err != nil {
				if errors.Is(err, usecase.ErrTokenExpired) {
					utils.ResponseError(w, utils.NewAuthError("Session expired. Please login again."))
					return
				}
				log.Warn("Rejected access token", zap.String("path", r.URL.Path))
				utils.ResponseError(w, utils.NewAuthError("Invalid token"))
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				utils.ResponseError(w, utils.NewAuthError("Invalid token"))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				log.Error("Failed to load user", zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseError(w, utils.NewInternalError("failed to load user", err))
				return
			}
			if user == nil {
				utils.ResponseError(w, utils.NewNotFoundError("User not found"))
				return
			}

			ctx := utils.SetIdentityContext(r.Context(), user, deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize lets the request through only when the authenticated user's role
// is one of roles. It must run after Authenticate.
func Authorize(roles ...entity.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[entity.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseError(w, utils.NewAuthError("Not logged in"))
				return
			}
			if _, ok := allowed[role]; !ok {
				utils.ResponseError(w, utils.NewForbiddenError("Permission denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
