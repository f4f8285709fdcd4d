package utils

import "testing"

type contactForm struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
}

func TestValidateStruct_Phone(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"9876543210", true},
		{"+919876543210", true},
		{"", true},
		{"12345", false},
		{"98765-43210", false},
		{"+1234567890123456", false},
	}
	for _, tt := range tests {
		errs := ValidateStruct(contactForm{PhoneNumber: tt.phone})
		if (len(errs) == 0) != tt.ok {
			t.Errorf("phone %q: errors = %v, want ok=%v", tt.phone, errs, tt.ok)
		}
	}
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	errs := ValidateStruct(contactForm{Email: "not-an-email", PhoneNumber: "1"})
	if errs["email"] != "Invalid email format" {
		t.Errorf("email error = %q", errs["email"])
	}
	if errs["phoneNumber"] != "Invalid phone number" {
		t.Errorf("phoneNumber error = %q", errs["phoneNumber"])
	}
	if got := FormatValidationErrors(errs); got != "email: Invalid email format; phoneNumber: Invalid phone number" {
		t.Errorf("FormatValidationErrors = %q", got)
	}
}
