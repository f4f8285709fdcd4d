package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ==================== OTP ====================

// GenerateOTP returns a numeric code of length digits, each drawn uniformly from crypto/rand.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	ten := big.NewInt(10)
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

// ==================== REFRESH TOKEN ====================

// GenerateRefreshToken returns nBytes of randomness, hex encoded.
func GenerateRefreshToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ==================== ULID ====================

// NewULID returns a new ULID string (26 chars), sortable by creation time.
func NewULID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ==================== SLUG ====================

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of other characters into "-".
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}
