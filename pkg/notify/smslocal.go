package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"salty-fish/pkg/utils"
)

// SMSLocalClient sends OTP SMS via the SMS Local bulk API (route=otp).
type SMSLocalClient struct {
	APIKey     string
	BaseURL    string
	Sender     string
	HTTPClient *http.Client
}

func NewSMSLocalClient(cfg utils.SMSConfig) *SMSLocalClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.smslocal.com/dev/bulkV2"
	}
	return &SMSLocalClient{
		APIKey:     cfg.APIKey,
		BaseURL:    baseURL,
		Sender:     cfg.Sender,
		HTTPClient: newHTTPClient(),
	}
}

// SendOTP sends code to phone. Does not log the code.
func (c *SMSLocalClient) SendOTP(ctx context.Context, phone, code string) error {
	if c.APIKey == "" {
		return utils.NewUnavailableError("SMS service is not configured", nil)
	}

	body := map[string]string{
		"route":     "otp",
		"numbers":   phone,
		"variables": code,
	}
	if c.Sender != "" {
		body["sender_id"] = c.Sender
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return utils.NewInternalError("encode sms", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return utils.NewInternalError("build sms request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return utils.NewUnavailableError("SMS service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return utils.NewUpstreamError("SMS delivery failed", fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b)))
	}
	return nil
}
