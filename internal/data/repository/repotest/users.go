// Package repotest holds in-memory repositories for service, middleware and handler tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository"

	"github.com/google/uuid"
)

// UserRepo is an in-memory repository.UserRepository. It stores copies so callers
// cannot mutate stored state without calling Save.
type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	// Err, when set, is returned by every method.
	Err error
	// Saves counts successful Save calls.
	Saves int
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.RefreshTokens = make(entity.RefreshTokens, len(u.RefreshTokens))
	for k, v := range u.RefreshTokens {
		c.RefreshTokens[k] = v
	}
	c.Cart = append(entity.Cart(nil), u.Cart...)
	return &c
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Put stores user as-is, bypassing the identifier checks.
func (r *UserRepo) Put(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(user)
}

// Get returns a copy of the stored user, deleted or not.
func (r *UserRepo) Get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	return cloneUser(u)
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) findLocked(email, phone string) *entity.User {
	if email != "" {
		for _, u := range r.users {
			if u.DeletedAt == nil && u.Email != nil && *u.Email == email {
				return u
			}
		}
	}
	if phone != "" {
		for _, u := range r.users {
			if u.DeletedAt == nil && u.PhoneNumber != nil && *u.PhoneNumber == phone {
				return u
			}
		}
	}
	return nil
}

func (r *UserRepo) FindByIdentifier(ctx context.Context, email, phone string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if u := r.findLocked(email, phone); u != nil {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *UserRepo) FindOrCreate(ctx context.Context, email, phone string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if email == "" && phone == "" {
		return nil, errors.New("find or create user: no identifier")
	}
	if u := r.findLocked(email, phone); u != nil {
		return cloneUser(u), nil
	}

	now := time.Now().UTC()
	u := &entity.User{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:         strPtr(email),
		PhoneNumber:   strPtr(phone),
		Role:          entity.RoleUser,
		RefreshTokens: entity.RefreshTokens{},
		Cart:          entity.Cart{},
	}
	r.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *UserRepo) FindByRefreshToken(ctx context.Context, tokenHash, deviceID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		if _, ok := u.RefreshTokens.Match(tokenHash, deviceID); ok {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	existing, ok := r.users[user.ID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("user %s not found or already deleted", user.ID)
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = cloneUser(user)
	r.Saves++
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("user %s not found", id)
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return nil
}
