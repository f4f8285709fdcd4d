package response

import (
	"time"

	"salty-fish/internal/data/entity"
)

// UserResponse is the safe projection of a user: no OTP hash or expiry,
// no refresh token hashes.
type UserResponse struct {
	ID          string             `json:"id"`
	Email       *string            `json:"email,omitempty"`
	PhoneNumber *string            `json:"phoneNumber,omitempty"`
	Name        *string            `json:"name,omitempty"`
	Role        entity.UserRole    `json:"role"`
	Active      bool               `json:"active"`
	Cart        []CartItemResponse `json:"cart"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type CartItemResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	VariantID string    `json:"variantId"`
	Quantity  int       `json:"quantity"`
	Weight    float64   `json:"weight"`
	AddedAt   time.Time `json:"addedAt"`
}

type RefreshTokenResponse struct {
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// LoginResponse is written as-is, outside the data envelope.
type LoginResponse struct {
	Status       string               `json:"status"`
	Message      string               `json:"message"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken RefreshTokenResponse `json:"refreshToken"`
	User         UserResponse         `json:"user"`
}

type RefreshResponse struct {
	Status      string `json:"status"`
	AccessToken string `json:"accessToken"`
	// ExpiresIn is the access token lifetime in milliseconds.
	ExpiresIn int64 `json:"expiresIn"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Name:        user.Name,
		Role:        user.Role,
		Active:      user.Active,
		Cart:        CartToResponse(user.Cart),
		CreatedAt:   user.CreatedAt,
	}
}

func CartToResponse(cart entity.Cart) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(cart))
	for _, line := range cart {
		out = append(out, CartItemResponse{
			ID:        line.ID,
			ItemID:    line.ItemID.String(),
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			Weight:    line.Weight,
			AddedAt:   line.AddedAt,
		})
	}
	return out
}
