package usecase

import (
	"context"
	"testing"
	"time"

	"salty-fish/internal/data/repository/repotest"
	"salty-fish/pkg/utils"
)

func TestRequestChallenge_RequiresIdentifier(t *testing.T) {
	s := newTestOTP(repotest.NewUserRepo(), newClock())
	_, _, err := s.RequestChallenge(context.Background(), "", "")
	wantKind(t, err, utils.KindValidation, "Email or phone number required")
}

func TestRequestChallenge_CreatesInactiveUserWithHashedCode(t *testing.T) {
	users := repotest.NewUserRepo()
	s := newTestOTP(users, newClock())

	user, code, err := s.RequestChallenge(context.Background(), "a@example.com", "")
	if err != nil {
		t.Fatalf("RequestChallenge: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("code length = %d, want 6", len(code))
	}

	stored := users.Get(user.ID)
	if stored.Active {
		t.Error("a new user must stay inactive until verified")
	}
	if !stored.HasChallenge() {
		t.Fatal("challenge should be stored")
	}
	if *stored.OTPHash == code {
		t.Error("code must not be stored in the clear")
	}
	if !utils.CompareOTP(code, *stored.OTPHash) {
		t.Error("stored hash should match the issued code")
	}
	if want := testNow.Add(3 * time.Minute); !stored.OTPExpiresAt.Equal(want) {
		t.Errorf("expiry = %v, want %v", stored.OTPExpiresAt, want)
	}
}

func TestRequestChallenge_ReplacesEarlierCode(t *testing.T) {
	users := repotest.NewUserRepo()
	s := newTestOTP(users, newClock())
	ctx := context.Background()

	first, firstCode, err := s.RequestChallenge(ctx, "a@example.com", "")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, secondCode, err := s.RequestChallenge(ctx, "a@example.com", "")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("same email must map to the same user")
	}
	if firstCode == secondCode {
		t.Skip("codes collided; nothing to compare")
	}

	if _, err := s.Verify(ctx, "a@example.com", "", firstCode); err == nil {
		t.Error("the superseded code must not verify")
	}
	if _, err := s.Verify(ctx, "a@example.com", "", secondCode); err != nil {
		t.Errorf("latest code should verify: %v", err)
	}
}

func TestVerify_UnknownUser(t *testing.T) {
	s := newTestOTP(repotest.NewUserRepo(), newClock())
	_, err := s.Verify(context.Background(), "nobody@example.com", "", "123456")
	wantKind(t, err, utils.KindNotFound, "User not found")
}

func TestVerify_NoChallenge(t *testing.T) {
	users := repotest.NewUserRepo()
	seedUser(t, users, "a@example.com")
	s := newTestOTP(users, newClock())

	_, err := s.Verify(context.Background(), "a@example.com", "", "123456")
	wantKind(t, err, utils.KindInvalidCredential, "Invalid or expired OTP")
}

func TestVerify_WrongCodeKeepsChallenge(t *testing.T) {
	users := repotest.NewUserRepo()
	s := newTestOTP(users, newClock())
	ctx := context.Background()

	user, code, err := s.RequestChallenge(ctx, "", "9876543210")
	if err != nil {
		t.Fatalf("RequestChallenge: %v", err)
	}
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	_, err = s.Verify(ctx, "", "9876543210", wrong)
	wantKind(t, err, utils.KindInvalidCredential, "Invalid or expired OTP")

	if !users.Get(user.ID).HasChallenge() {
		t.Error("a wrong guess must not consume the challenge")
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		ok      bool
	}{
		{"just before expiry", 3*time.Minute - time.Second, true},
		{"at expiry", 3 * time.Minute, false},
		{"after expiry", 4 * time.Minute, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := repotest.NewUserRepo()
			clock := newClock()
			s := newTestOTP(users, clock)
			ctx := context.Background()

			_, code, err := s.RequestChallenge(ctx, "a@example.com", "")
			if err != nil {
				t.Fatalf("RequestChallenge: %v", err)
			}
			clock.Advance(tt.advance)

			_, err = s.Verify(ctx, "a@example.com", "", code)
			if tt.ok && err != nil {
				t.Errorf("Verify: %v", err)
			}
			if !tt.ok {
				wantKind(t, err, utils.KindInvalidCredential, "Invalid or expired OTP")
			}
		})
	}
}

func TestVerify_ConsumesChallengeAndActivates(t *testing.T) {
	users := repotest.NewUserRepo()
	s := newTestOTP(users, newClock())
	ctx := context.Background()

	_, code, err := s.RequestChallenge(ctx, "a@example.com", "")
	if err != nil {
		t.Fatalf("RequestChallenge: %v", err)
	}

	user, err := s.Verify(ctx, "a@example.com", "", code)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	stored := users.Get(user.ID)
	if !stored.Active {
		t.Error("user should be active after verification")
	}
	if stored.HasChallenge() {
		t.Error("challenge should be cleared after verification")
	}

	_, err = s.Verify(ctx, "a@example.com", "", code)
	wantKind(t, err, utils.KindInvalidCredential, "Invalid or expired OTP")
}
