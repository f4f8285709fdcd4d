package utils

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateOTP_Digits(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		otp, err := GenerateOTP(length)
		if err != nil {
			t.Fatalf("GenerateOTP(%d): %v", length, err)
		}
		if len(otp) != length {
			t.Errorf("OTP length = %d, want %d", len(otp), length)
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Errorf("OTP contains non-digit: %c", c)
			}
		}
	}
}

func TestGenerateOTP_KeepsLeadingZeros(t *testing.T) {
	// a uniform draw over 10^6 codes starts with 0 about one time in ten
	sawZero := false
	for i := 0; i < 500 && !sawZero; i++ {
		otp, err := GenerateOTP(6)
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("OTP length = %d, want 6", len(otp))
		}
		sawZero = otp[0] == '0'
	}
	if !sawZero {
		t.Error("no code with a leading zero in 500 draws")
	}
}

func TestHashOTP_RoundTrip(t *testing.T) {
	hash, err := HashOTP("123456", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashOTP: %v", err)
	}
	if hash == "123456" || strings.Contains(hash, "123456") {
		t.Fatal("hash must not contain the code")
	}
	if !CompareOTP("123456", hash) {
		t.Error("CompareOTP should accept the right code")
	}
	if CompareOTP("654321", hash) {
		t.Error("CompareOTP should reject a wrong code")
	}
	if CompareOTP("", hash) || CompareOTP("123456", "") {
		t.Error("CompareOTP should reject empty inputs")
	}
}

func TestHashRefreshToken(t *testing.T) {
	plain := HashRefreshToken("token", nil)
	if len(plain) != 64 {
		t.Errorf("hash length = %d, want 64 (SHA-256 hex)", len(plain))
	}
	if plain != HashRefreshToken("token", nil) {
		t.Error("hash must be deterministic")
	}
	if plain == HashRefreshToken("other", nil) {
		t.Error("different tokens must hash differently")
	}

	peppered := HashRefreshToken("token", []byte("pepper"))
	if peppered == plain {
		t.Error("keyed hash should differ from plain SHA-256")
	}
	if peppered != HashRefreshToken("token", []byte("pepper")) {
		t.Error("keyed hash must be deterministic")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken(40)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if len(a) != 80 {
		t.Errorf("token length = %d, want 80 hex chars", len(a))
	}
	b, _ := GenerateRefreshToken(40)
	if a == b {
		t.Error("two tokens should not collide")
	}
}

func TestNewULID_SortsByTime(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := NewULID(t0)
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	second, _ := NewULID(t0.Add(time.Millisecond))

	if len(first) != 26 {
		t.Errorf("ULID length = %d, want 26", len(first))
	}
	if !(first < second) {
		t.Errorf("ULIDs not time ordered: %s >= %s", first, second)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Dried Anchovy", "dried-anchovy"},
		{"  Salted  Fish (Small) ", "salted-fish-small"},
		{"Nethili--Karuvadu!!", "nethili-karuvadu"},
		{"***", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
