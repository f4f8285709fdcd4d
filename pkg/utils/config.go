package utils

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Zoho     ZohoConfig
	SMS      SMSConfig
}

type AppConfig struct {
	Name         string
	Env          string
	Port         string
	Debug        bool
	LogPath      string
	CORSOrigins  []string
	CookieSecure bool
	// TrustProxy lets client IPs come from X-Forwarded-For / X-Real-IP.
	TrustProxy   bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret            string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	RefreshTokenBytes int
	// HMACKey peppers refresh token hashes when set; plain SHA-256 otherwise.
	HMACKey string
}

type OTPConfig struct {
	Expiry     time.Duration
	Length     int
	BcryptCost int
	RateLimit  float64
}

type ZohoConfig struct {
	AccountsURL  string
	MailURL      string
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccountID    string
	FromAddress  string
}

type SMSConfig struct {
	APIKey  string
	BaseURL string
	Sender  string
}

// Configured reports whether every credential needed to send mail is present.
func (z ZohoConfig) Configured() bool {
	return z.ClientID != "" && z.ClientSecret != "" && z.RefreshToken != "" &&
		z.AccountID != "" && z.FromAddress != ""
}

// IsProduction reports whether APP_ENV is production.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// DSN returns the postgres URL used by both pgxpool and migrate.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "salty-fish")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CORS_ORIGINS", "https://momssaltyfish.com,http://localhost:5173")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("REFRESH_TOKEN_BYTES", 40)
	v.SetDefault("OTP_EXPIRY", "3m")
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_BCRYPT_COST", 10)
	v.SetDefault("OTP_RATE_LIMIT", 0.2)
	v.SetDefault("ZOHO_ACCOUNTS_URL", "https://accounts.zoho.in")
	v.SetDefault("ZOHO_MAIL_URL", "https://mail.zoho.in")
	v.SetDefault("SMS_LOCAL_BASE_URL", "https://www.smslocal.com/dev/bulkV2")

	// .env is optional; the environment always wins.
	if _, err := os.Stat(".env"); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:         v.GetString("APP_NAME"),
			Env:          v.GetString("APP_ENV"),
			Port:         v.GetString("PORT"),
			Debug:        v.GetBool("DEBUG"),
			LogPath:      v.GetString("LOG_PATH"),
			CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
			TrustProxy:   v.GetBool("TRUST_PROXY"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:            v.GetString("JWT_SECRET"),
			AccessTTL:         v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL:        v.GetDuration("REFRESH_TOKEN_TTL"),
			RefreshTokenBytes: v.GetInt("REFRESH_TOKEN_BYTES"),
			HMACKey:           v.GetString("TOKEN_HMAC_KEY"),
		},
		OTP: OTPConfig{
			Expiry:     v.GetDuration("OTP_EXPIRY"),
			Length:     v.GetInt("OTP_LENGTH"),
			BcryptCost: v.GetInt("OTP_BCRYPT_COST"),
			RateLimit:  v.GetFloat64("OTP_RATE_LIMIT"),
		},
		Zoho: ZohoConfig{
			AccountsURL:  v.GetString("ZOHO_ACCOUNTS_URL"),
			MailURL:      v.GetString("ZOHO_MAIL_URL"),
			ClientID:     v.GetString("ZOHO_CLIENT_ID"),
			ClientSecret: v.GetString("ZOHO_CLIENT_SECRET"),
			RefreshToken: v.GetString("ZOHO_REFRESH_TOKEN"),
			AccountID:    v.GetString("ZOHO_ACCOUNT_ID"),
			FromAddress:  v.GetString("ZOHO_FROM_ADDRESS"),
		},
		SMS: SMSConfig{
			APIKey:  v.GetString("SMS_LOCAL_API_KEY"),
			BaseURL: v.GetString("SMS_LOCAL_BASE_URL"),
			Sender:  v.GetString("SMS_LOCAL_SENDER"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("config: JWT_ACCESS_TTL and REFRESH_TOKEN_TTL must be positive durations")
	}
	if c.JWT.RefreshTokenBytes < 32 {
		return errors.New("config: REFRESH_TOKEN_BYTES must be at least 32")
	}
	if c.OTP.Expiry <= 0 {
		return errors.New("config: OTP_EXPIRY must be a positive duration")
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return errors.New("config: OTP_LENGTH must be between 4 and 10")
	}
	if c.OTP.BcryptCost < 4 || c.OTP.BcryptCost > 31 {
		return errors.New("config: OTP_BCRYPT_COST must be between 4 and 31")
	}
	if c.App.IsProduction() && !c.Zoho.Configured() {
		return errors.New("config: ZOHO_* mail settings are required when APP_ENV=production")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
