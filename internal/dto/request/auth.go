package request

import "strings"

// Presence of the identifiers is checked by the auth service so the
// messages stay stable; tags here only check format.
type RequestOTPRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
}

type VerifyOTPRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
	OTP         string `json:"otp" validate:"omitempty,numeric"`
	DeviceID    string `json:"deviceId" validate:"omitempty,max=128"`
}

// Normalize trims whitespace and lowercases the email.
func (r *RequestOTPRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

func (r *VerifyOTPRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.OTP = strings.TrimSpace(r.OTP)
	r.DeviceID = strings.TrimSpace(r.DeviceID)
}
