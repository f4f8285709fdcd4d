package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User is the identity document: contact identifiers, the live OTP challenge,
// per-device refresh tokens and the shopping cart live on one row.
type User struct {
	Base
	Email         *string       `db:"email"`
	PhoneNumber   *string       `db:"phone_number"`
	Name          *string       `db:"name"`
	Role          UserRole      `db:"role"`
	Active        bool          `db:"active"`
	OTPHash       *string       `db:"otp_hash"`
	OTPExpiresAt  *time.Time    `db:"otp_expires_at"`
	RefreshTokens RefreshTokens `db:"refresh_tokens"`
	Cart          Cart          `db:"cart"`
}

// HasChallenge reports whether an OTP challenge is stored, live or not.
func (u *User) HasChallenge() bool {
	return u.OTPHash != nil && u.OTPExpiresAt != nil
}

// SetChallenge stores hash as the only live challenge, replacing any prior one.
func (u *User) SetChallenge(hash string, expiresAt time.Time) {
	u.OTPHash = &hash
	u.OTPExpiresAt = &expiresAt
}

func (u *User) ClearChallenge() {
	u.OTPHash = nil
	u.OTPExpiresAt = nil
}

// RefreshToken is the stored form of a refresh token: only its hash is kept.
type RefreshToken struct {
	TokenHash string    `json:"token_hash"`
	DeviceID  string    `json:"device_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the record is unusable at now.
func (t RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// RefreshTokens holds at most one record per device, keyed by device id.
type RefreshTokens map[string]RefreshToken

// Put inserts rec for its device, superseding any record that device had.
func (rt *RefreshTokens) Put(rec RefreshToken) {
	if *rt == nil {
		*rt = make(RefreshTokens)
	}
	(*rt)[rec.DeviceID] = rec
}

// Remove deletes the record for deviceID and reports whether one existed.
func (rt RefreshTokens) Remove(deviceID string) bool {
	if _, ok := rt[deviceID]; !ok {
		return false
	}
	delete(rt, deviceID)
	return true
}

// Match returns the record for deviceID if its hash equals tokenHash.
func (rt RefreshTokens) Match(tokenHash, deviceID string) (RefreshToken, bool) {
	rec, ok := rt[deviceID]
	if !ok || rec.TokenHash != tokenHash {
		return RefreshToken{}, false
	}
	return rec, true
}

// PurgeExpired drops every record expired at now and returns how many went.
func (rt RefreshTokens) PurgeExpired(now time.Time) int {
	purged := 0
	for device, rec := range rt {
		if rec.Expired(now) {
			delete(rt, device)
			purged++
		}
	}
	return purged
}

// CartItem is one line of the cart; ID is a ULID so lines sort by insertion.
type CartItem struct {
	ID        string    `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	VariantID string    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	Weight    float64   `json:"weight"`
	AddedAt   time.Time `json:"added_at"`
}

type Cart []CartItem

// FindVariant returns the index of the line for (itemID, variantID), or -1.
func (c Cart) FindVariant(itemID uuid.UUID, variantID string) int {
	for i, line := range c {
		if line.ItemID == itemID && line.VariantID == variantID {
			return i
		}
	}
	return -1
}

// FindLine returns the index of the line with the given id, or -1.
func (c Cart) FindLine(lineID string) int {
	for i, line := range c {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}
