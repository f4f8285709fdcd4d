package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashOTP hashes a one-time code with bcrypt; the code space is small, so a slow hash is used.
func HashOTP(code string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareOTP reports whether code matches the stored bcrypt hash.
func CompareOTP(code, hash string) bool {
	if code == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

// HashRefreshToken returns the hex digest stored for a refresh token.
// With a key it is HMAC-SHA256, otherwise plain SHA-256; both are deterministic
// so the digest can be looked up.
func HashRefreshToken(token string, key []byte) string {
	if len(key) == 0 {
		sum := sha256.Sum256([]byte(token))
		return hex.EncodeToString(sum[:])
	}
	m := hmac.New(sha256.New, key)
	m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}
