package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository/repotest"
	"salty-fish/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock { return &fakeClock{t: testNow} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testJWTConfig() utils.JWTConfig {
	return utils.JWTConfig{
		Secret:            "test-secret",
		AccessTTL:         15 * time.Minute,
		RefreshTTL:        7 * 24 * time.Hour,
		RefreshTokenBytes: 40,
	}
}

func testOTPConfig() utils.OTPConfig {
	return utils.OTPConfig{Expiry: 3 * time.Minute, Length: 6, BcryptCost: bcrypt.MinCost}
}

func newTestOTP(users *repotest.UserRepo, clock *fakeClock) *otpService {
	s := NewOTPService(users, testOTPConfig(), zap.NewNop()).(*otpService)
	s.now = clock.Now
	return s
}

func newTestTokens(users *repotest.UserRepo, clock *fakeClock) *tokenService {
	s := NewTokenService(users, testJWTConfig(), zap.NewNop()).(*tokenService)
	s.now = clock.Now
	return s
}

// captureNotifier records the last code it was asked to deliver.
type captureNotifier struct {
	mu    sync.Mutex
	email string
	phone string
	code  string
	calls int
	err   error
}

func (n *captureNotifier) DeliverOTP(ctx context.Context, email, phone, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.email, n.phone, n.code = email, phone, code
	return n.err
}

func seedUser(t *testing.T, users *repotest.UserRepo, email string) *entity.User {
	t.Helper()
	u := &entity.User{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		Email:         &email,
		Role:          entity.RoleUser,
		Active:        true,
		RefreshTokens: entity.RefreshTokens{},
		Cart:          entity.Cart{},
	}
	users.Put(u)
	return u
}

func wantKind(t *testing.T, err error, kind utils.ErrorKind, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", message)
	}
	if got := utils.KindOf(err); got != kind {
		t.Errorf("error kind = %v, want %v (%v)", got, kind, err)
	}
	if message != "" {
		if got := utils.PublicMessage(err); got != message {
			t.Errorf("message = %q, want %q", got, message)
		}
	}
}
