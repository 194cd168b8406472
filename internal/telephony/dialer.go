package telephony

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

// Dialer places outbound calls whose first webhook is callbackURL.
type Dialer interface {
	PlaceCall(ctx context.Context, to, callbackURL string) (string, error)
}

// Option configures a TwilioDialer.
type Option func(*options)

type options struct {
	accountSID  string
	authToken   string
	phoneNumber string
}

func WithAccountSID(sid string) Option {
	return func(o *options) { o.accountSID = sid }
}

func WithAuthToken(token string) Option {
	return func(o *options) { o.authToken = token }
}

// WithPhoneNumber sets the caller id for outbound calls.
func WithPhoneNumber(number string) Option {
	return func(o *options) { o.phoneNumber = number }
}

// TwilioDialer places calls through the Twilio REST API.
type TwilioDialer struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioDialer never fails; missing credentials are reported by PlaceCall.
func NewTwilioDialer(opts ...Option) *TwilioDialer {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}
	d := &TwilioDialer{from: strings.TrimSpace(cfg.phoneNumber)}
	if strings.TrimSpace(cfg.accountSID) == "" || strings.TrimSpace(cfg.authToken) == "" {
		return d
	}

	d.client = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: strings.TrimSpace(cfg.accountSID),
		Password: strings.TrimSpace(cfg.authToken),
	})
	return d
}

// NewTwilioDialerFromConfig wires a dialer from environment config.
func NewTwilioDialerFromConfig(cfg Config) *TwilioDialer {
	return NewTwilioDialer(
		WithAccountSID(cfg.AccountSID),
		WithAuthToken(cfg.AuthToken),
		WithPhoneNumber(cfg.PhoneNumber),
	)
}

// PlaceCall creates the call and returns its SID.
func (d *TwilioDialer) PlaceCall(ctx context.Context, to, callbackURL string) (string, error) {
	if d.client == nil {
		return "", errx.ConfigMissing("twilio credentials")
	}
	if d.from == "" {
		return "", errx.ConfigMissing("twilio phone number")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(d.from)
	params.SetUrl(callbackURL)
	params.SetMethod("POST")

	resp, err := d.client.Api.CreateCall(params)
	if err != nil {
		var restErr *twclient.TwilioRestError
		if errors.As(err, &restErr) {
			logx.Error().Int("code", restErr.Code).Int("status", restErr.Status).Str("to", to).Msg(restErr.Message)
			return "", fmt.Errorf("twilio create call: %d %s", restErr.Code, restErr.Message)
		}
		logx.Error().Err(err).Str("to", to).Msg("twilio create call failed")
		return "", fmt.Errorf("twilio create call: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", fmt.Errorf("twilio create call: empty response")
	}
	return *resp.Sid, nil
}

var _ Dialer = (*TwilioDialer)(nil)
