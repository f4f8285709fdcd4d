package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByIdentifier(ctx context.Context, email, phone string) (*entity.User, error)
	FindOrCreate(ctx context.Context, email, phone string) (*entity.User, error)
	FindByRefreshToken(ctx context.Context, tokenHash, deviceID string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `
	id, email, phone_number, name, role, active, otp_hash, otp_expires_at,
	refresh_tokens, cart, created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PhoneNumber,
		&user.Name,
		&user.Role,
		&user.Active,
		&user.OTPHash,
		&user.OTPExpiresAt,
		&user.RefreshTokens,
		&user.Cart,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.RefreshTokens == nil {
		user.RefreshTokens = entity.RefreshTokens{}
	}
	return &user, nil
}

// documents encodes the embedded collections as jsonb parameters.
func documents(user *entity.User) ([]byte, []byte, error) {
	tokens := user.RefreshTokens
	if tokens == nil {
		tokens = entity.RefreshTokens{}
	}
	cart := user.Cart
	if cart == nil {
		cart = entity.Cart{}
	}

	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("encode refresh tokens: %w", err)
	}
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return nil, nil, fmt.Errorf("encode cart: %w", err)
	}
	return tokensJSON, cartJSON, nil
}

// Create inserts user. A row already holding the same email or phone number
// wins and the insert is a no-op.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	tokens, cart, err := documents(user)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, email, phone_number, name, role, active,
		                   otp_hash, otp_expires_at, refresh_tokens, cart,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11, $12)
		ON CONFLICT DO NOTHING
	`

	_, err = r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PhoneNumber,
		user.Name,
		user.Role,
		user.Active,
		user.OTPHash,
		user.OTPExpiresAt,
		tokens,
		cart,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("create user %s: %w", user.ID, err)
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}

	return user, nil
}

// FindByIdentifier looks a live user up by email, else by phone number.
// An email match wins when both identifiers are given.
func (r *userRepository) FindByIdentifier(ctx context.Context, email, phone string) (*entity.User, error) {
	if email == "" && phone == "" {
		return nil, nil
	}

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		  AND ((email = $1 AND $1 <> '') OR (phone_number = $2 AND $2 <> ''))
		ORDER BY (COALESCE(email, '') = $1 AND $1 <> '') DESC
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, email, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by identifier", zap.Error(err))
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}

	return user, nil
}

// FindOrCreate returns the live user for the identifiers, inserting a fresh
// inactive one first when none exists. Concurrent callers converge on one row
// through the unique indexes.
func (r *userRepository) FindOrCreate(ctx context.Context, email, phone string) (*entity.User, error) {
	if email == "" && phone == "" {
		return nil, errors.New("find or create user: no identifier")
	}

	existing, err := r.FindByIdentifier(ctx, email, phone)
	if err != nil || existing != nil {
		return existing, err
	}

	now := time.Now().UTC()
	fresh := &entity.User{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:         optional(email),
		PhoneNumber:   optional(phone),
		Role:          entity.RoleUser,
		RefreshTokens: entity.RefreshTokens{},
		Cart:          entity.Cart{},
	}
	if err := r.Create(ctx, fresh); err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	user, err := r.FindByIdentifier(ctx, email, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("find or create user: row vanished after insert")
	}

	r.log.Info("User created", zap.String("user_id", user.ID.String()))
	return user, nil
}

// FindByRefreshToken returns the user holding a refresh record for deviceID
// whose hash equals tokenHash, expired or not.
func (r *userRepository) FindByRefreshToken(ctx context.Context, tokenHash, deviceID string) (*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		  AND refresh_tokens -> $2::text ->> 'token_hash' = $1
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, tokenHash, deviceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by refresh token",
			zap.Error(err),
			zap.String("device_id", deviceID),
		)
		return nil, fmt.Errorf("find user by refresh token: %w", err)
	}

	return user, nil
}

// Save writes the whole user document back; the last writer wins.
func (r *userRepository) Save(ctx context.Context, user *entity.User) error {
	tokens, cart, err := documents(user)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET email = $2, phone_number = $3, name = $4, role = $5, active = $6,
		    otp_hash = $7, otp_expires_at = $8,
		    refresh_tokens = $9::jsonb, cart = $10::jsonb,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err = r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PhoneNumber,
		user.Name,
		user.Role,
		user.Active,
		user.OTPHash,
		user.OTPExpiresAt,
		tokens,
		cart,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("user %s not found or already deleted", user.ID)
	}
	if err != nil {
		r.log.Error("Failed to save user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("save user %s: %w", user.ID, err)
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}

	r.log.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
