package utils

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Env: "development"},
		JWT: JWTConfig{
			Secret:            "secret",
			AccessTTL:         15 * time.Minute,
			RefreshTTL:        7 * 24 * time.Hour,
			RefreshTokenBytes: 40,
		},
		OTP: OTPConfig{Expiry: 3 * time.Minute, Length: 6, BcryptCost: 10},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET"},
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }, "JWT_ACCESS_TTL"},
		{"short refresh token", func(c *Config) { c.JWT.RefreshTokenBytes = 16 }, "REFRESH_TOKEN_BYTES"},
		{"otp length", func(c *Config) { c.OTP.Length = 3 }, "OTP_LENGTH"},
		{"bcrypt cost", func(c *Config) { c.OTP.BcryptCost = 2 }, "OTP_BCRYPT_COST"},
		{"production without zoho", func(c *Config) { c.App.Env = "production" }, "ZOHO"},
		{"production with zoho", func(c *Config) {
			c.App.Env = "Production"
			c.Zoho = ZohoConfig{ClientID: "id", ClientSecret: "s", RefreshToken: "r", AccountID: "a", FromAddress: "f@x.test"}
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("OTP_EXPIRY", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")

	c, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.JWT.Secret != "from-env" {
		t.Errorf("secret = %q", c.JWT.Secret)
	}
	if c.OTP.Expiry != 5*time.Minute {
		t.Errorf("otp expiry = %v, want 5m", c.OTP.Expiry)
	}
	if c.JWT.AccessTTL != 15*time.Minute || c.JWT.RefreshTTL != 168*time.Hour {
		t.Errorf("token ttls = %v / %v", c.JWT.AccessTTL, c.JWT.RefreshTTL)
	}
	if c.App.TrustProxy {
		t.Error("TRUST_PROXY should default to false")
	}
	if len(c.App.CORSOrigins) != 2 || c.App.CORSOrigins[1] != "https://b.test" {
		t.Errorf("cors origins = %v", c.App.CORSOrigins)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", Name: "shop", User: "app", Password: "p@ss", SSLMode: "disable"}
	want := "postgres://app:p%40ss@db:5432/shop?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
