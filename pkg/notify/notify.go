// Package notify delivers one-time codes to users over mail or SMS.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"salty-fish/pkg/utils"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Mailer sends a plain message to one address.
type Mailer interface {
	Send(ctx context.Context, to, subject, message string) error
}

// SMSSender sends a one-time code to one phone number.
type SMSSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// Dispatcher picks the channel for a code: mail when the user has an
// address, SMS otherwise.
type Dispatcher struct {
	mailer Mailer
	sms    SMSSender
	expiry time.Duration
	log    *zap.Logger
}

func NewDispatcher(mailer Mailer, sms SMSSender, expiry time.Duration, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer: mailer,
		sms:    sms,
		expiry: expiry,
		log:    log.With(zap.String("component", "notify")),
	}
}

// DeliverOTP sends code to email when set, else to phone.
func (d *Dispatcher) DeliverOTP(ctx context.Context, email, phone, code string) error {
	switch {
	case email != "":
		if d.mailer == nil {
			return utils.NewUnavailableError("Mail service is not configured", nil)
		}
		message := fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, int(d.expiry.Minutes()))
		if err := d.mailer.Send(ctx, email, "Your Login OTP", message); err != nil {
			d.log.Warn("OTP mail delivery failed", zap.Error(err))
			return err
		}
		return nil
	case phone != "":
		if d.sms == nil {
			return utils.NewUnavailableError("SMS service is not configured", nil)
		}
		if err := d.sms.SendOTP(ctx, phone, code); err != nil {
			d.log.Warn("OTP SMS delivery failed", zap.Error(err))
			return err
		}
		return nil
	default:
		return utils.NewValidationError("Email or phone number required")
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
