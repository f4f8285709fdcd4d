package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"salty-fish/pkg/utils"
)

// TokenValidity is how long a fetched Zoho access token is reused.
const TokenValidity = 59 * time.Minute

// ZohoTokenSource exchanges the long-lived refresh token for access tokens
// and keeps the latest one for TokenValidity.
type ZohoTokenSource struct {
	AccountsURL  string
	ClientID     string
	ClientSecret string
	RefreshToken string
	HTTPClient   *http.Client

	mu        sync.Mutex
	token     string
	fetchedAt time.Time
	now       func() time.Time
}

func NewZohoTokenSource(cfg utils.ZohoConfig) *ZohoTokenSource {
	return &ZohoTokenSource{
		AccountsURL:  strings.TrimRight(cfg.AccountsURL, "/"),
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		HTTPClient:   newHTTPClient(),
		now:          time.Now,
	}
}

type zohoTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Token returns the cached access token, fetching a new one once the cached
// token is TokenValidity old.
func (s *ZohoTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Sub(s.fetchedAt) < TokenValidity {
		return s.token, nil
	}

	token, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	s.fetchedAt = now
	return token, nil
}

// Invalidate drops the cached token so the next call fetches a fresh one.
func (s *ZohoTokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

func (s *ZohoTokenSource) fetch(ctx context.Context) (string, error) {
	form := url.Values{
		"refresh_token": {s.RefreshToken},
		"grant_type":    {"refresh_token"},
		"client_id":     {s.ClientID},
		"client_secret": {s.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.AccountsURL+"/oauth/v2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", utils.NewInternalError("Zoho token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", utils.NewUnavailableError("Zoho Mail service unreachable", err)
	}
	defer resp.Body.Close()

	var body zohoTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", utils.NewUpstreamError("Zoho API Error: invalid token response", err)
	}
	if resp.StatusCode != http.StatusOK || body.AccessToken == "" {
		reason := body.Error
		if reason == "" {
			reason = "token refresh failed"
		}
		return "", utils.NewUpstreamError("Zoho API Error: "+reason, fmt.Errorf("status %d", resp.StatusCode))
	}

	return body.AccessToken, nil
}
