package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"salty-fish/pkg/utils"
)

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// invalidator is implemented by token sources that cache; a 401 from the
// mail API drops the cached token.
type invalidator interface {
	Invalidate()
}

// ZohoMailer sends mail through the Zoho Mail REST API.
type ZohoMailer struct {
	MailURL     string
	AccountID   string
	FromAddress string
	Tokens      TokenSource
	HTTPClient  *http.Client
}

func NewZohoMailer(cfg utils.ZohoConfig, tokens TokenSource) *ZohoMailer {
	return &ZohoMailer{
		MailURL:     strings.TrimRight(cfg.MailURL, "/"),
		AccountID:   cfg.AccountID,
		FromAddress: cfg.FromAddress,
		Tokens:      tokens,
		HTTPClient:  newHTTPClient(),
	}
}

type zohoMessage struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
	AskReceipt  string `json:"askReceipt"`
}

type zohoErrorResponse struct {
	Data struct {
		ErrorCode string `json:"errorCode"`
		Message   string `json:"moreInfo"`
	} `json:"data"`
	Status struct {
		Code        int    `json:"code"`
		Description string `json:"description"`
	} `json:"status"`
}

func mailBody(to, message string) string {
	return fmt.Sprintf(`Hello %s,

%s

Please do not reply to this email.
For any assistance, contact us at support@momssaltyfish.com

Thanks & Regards,
Mom's Salty Fish Support Team
`, to, message)
}

func (m *ZohoMailer) Send(ctx context.Context, to, subject, message string) error {
	token, err := m.Tokens.Token(ctx)
	if err != nil {
		return err
	}

	if subject == "" {
		subject = "Mom's Salty Fish - Customer Support"
	}
	raw, err := json.Marshal(zohoMessage{
		FromAddress: m.FromAddress,
		ToAddress:   to,
		Subject:     subject,
		Content:     mailBody(to, message),
		AskReceipt:  "no",
	})
	if err != nil {
		return utils.NewInternalError("encode mail", err)
	}

	endpoint := fmt.Sprintf("%s/api/accounts/%s/messages", m.MailURL, m.AccountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return utils.NewInternalError("build mail request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return utils.NewUnavailableError("Zoho Mail service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if inv, ok := m.Tokens.(invalidator); ok {
			inv.Invalidate()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		reason := "Email failed"
		var body zohoErrorResponse
		if json.Unmarshal(b, &body) == nil {
			if body.Data.Message != "" {
				reason = body.Data.Message
			} else if body.Status.Description != "" {
				reason = body.Status.Description
			}
		}
		return utils.NewUpstreamError("Zoho API Error: "+reason, fmt.Errorf("status %d", resp.StatusCode))
	}

	return nil
}
