package usecase

import (
	"context"
	"errors"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository"
	"salty-fish/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenIssuer = "salty-fish"

var (
	// ErrTokenExpired is returned by VerifyAccess for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("access token expired")
	// ErrTokenInvalid covers every other verification failure.
	ErrTokenInvalid = errors.New("invalid access token")
)

// AccessClaims asserts who the bearer is and which device the session belongs to.
type AccessClaims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"device_id"`
}

// Session is the result of a successful login. Only the refresh token hash is stored.
type Session struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
	TTL       time.Duration
}

type TokenService interface {
	IssueSession(ctx context.Context, userID uuid.UUID, deviceID string) (*Session, error)
	Refresh(ctx context.Context, rawRefreshToken, deviceID string) (*AccessToken, error)
	Revoke(ctx context.Context, userID uuid.UUID, deviceID string) error
	VerifyAccess(token string) (*AccessClaims, error)
}

type tokenService struct {
	users  repository.UserRepository
	config utils.JWTConfig
	secret []byte
	pepper []byte
	now    func() time.Time
	log    *zap.Logger
}

func NewTokenService(users repository.UserRepository, config utils.JWTConfig, log *zap.Logger) TokenService {
	var pepper []byte
	if config.HMACKey != "" {
		pepper = []byte(config.HMACKey)
	}
	return &tokenService{
		users:  users,
		config: config,
		secret: []byte(config.Secret),
		pepper: pepper,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With(zap.String("service", "token")),
	}
}

func (s *tokenService) signAccess(userID uuid.UUID, deviceID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.config.AccessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		DeviceID: deviceID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyAccess checks signature, issuer and expiry. Expiry is reported as
// ErrTokenExpired so callers can ask the client to log in again.
func (s *tokenService) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *tokenService) IssueSession(ctx context.Context, userID uuid.UUID, deviceID string) (*Session, error) {
	if deviceID == "" {
		return nil, utils.NewValidationError("Device ID is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User not found")
	}

	now := s.now()
	access, accessExp, err := s.signAccess(user.ID, deviceID, now)
	if err != nil {
		return nil, utils.NewInternalError("failed to sign access token", err)
	}

	raw, err := utils.GenerateRefreshToken(s.config.RefreshTokenBytes)
	if err != nil {
		return nil, utils.NewInternalError("failed to generate refresh token", err)
	}
	refreshExp := now.Add(s.config.RefreshTTL)

	if purged := user.RefreshTokens.PurgeExpired(now); purged > 0 {
		s.log.Debug("Purged expired refresh tokens",
			zap.String("user_id", user.ID.String()),
			zap.Int("count", purged))
	}
	user.RefreshTokens.Put(entity.RefreshToken{
		TokenHash: utils.HashRefreshToken(raw, s.pepper),
		DeviceID:  deviceID,
		ExpiresAt: refreshExp,
		CreatedAt: now,
	})

	if err := s.users.Save(ctx, user); err != nil {
		return nil, utils.NewInternalError("failed to store refresh token", err)
	}

	s.log.Info("Session issued",
		zap.String("user_id", user.ID.String()),
		zap.String("device_id", deviceID))

	return &Session{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     raw,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh mints a new access token for a stored, unexpired refresh token.
// The refresh token itself is not rotated.
func (s *tokenService) Refresh(ctx context.Context, rawRefreshToken, deviceID string) (*AccessToken, error) {
	if rawRefreshToken == "" || deviceID == "" {
		return nil, utils.NewAuthError("Refresh token and device ID required")
	}

	hash := utils.HashRefreshToken(rawRefreshToken, s.pepper)
	user, err := s.users.FindByRefreshToken(ctx, hash, deviceID)
	if err != nil {
		return nil, utils.NewInternalError("failed to look up refresh token", err)
	}
	if user == nil {
		return nil, utils.NewAuthError("Invalid refresh token")
	}

	now := s.now()
	record, ok := user.RefreshTokens.Match(hash, deviceID)
	if !ok {
		return nil, utils.NewAuthError("Invalid refresh token")
	}
	if record.Expired(now) {
		user.RefreshTokens.PurgeExpired(now)
		if err := s.users.Save(ctx, user); err != nil {
			s.log.Warn("Failed to purge expired refresh tokens",
				zap.Error(err),
				zap.String("user_id", user.ID.String()))
		}
		return nil, utils.NewAuthError("Expired or invalid refresh token")
	}

	access, exp, err := s.signAccess(user.ID, deviceID, now)
	if err != nil {
		return nil, utils.NewInternalError("failed to sign access token", err)
	}

	return &AccessToken{Token: access, ExpiresAt: exp, TTL: s.config.AccessTTL}, nil
}

// Revoke removes only the record for deviceID; other devices stay logged in.
func (s *tokenService) Revoke(ctx context.Context, userID uuid.UUID, deviceID string) error {
	if deviceID == "" {
		return utils.NewValidationError("Device ID is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return utils.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return utils.NewNotFoundError("User not found")
	}

	if !user.RefreshTokens.Remove(deviceID) {
		return utils.NewAuthError("User not logged in on this device")
	}

	if err := s.users.Save(ctx, user); err != nil {
		return utils.NewInternalError("failed to revoke refresh token", err)
	}

	s.log.Info("Session revoked",
		zap.String("user_id", user.ID.String()),
		zap.String("device_id", deviceID))
	return nil
}
