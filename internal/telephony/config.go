package telephony

import (
	"strings"

	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
)

// Config carries the Twilio account and the voice settings used for rendering.
type Config struct {
	AccountSID        string `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken         string `envconfig:"TWILIO_AUTH_TOKEN"`
	PhoneNumber       string `envconfig:"TWILIO_PHONE_NUMBER"`
	ValidateSignature bool   `envconfig:"TWILIO_VALIDATE_SIGNATURE" default:"false"`
	Voice             string `envconfig:"TWILIO_VOICE" default:"Google.en-US-Neural2-F"`
	Language          string `envconfig:"TWILIO_LANGUAGE" default:"en-US"`
	GatherTimeout     int    `envconfig:"TWILIO_GATHER_TIMEOUT" default:"10"`

	WebhookBaseURL      string `envconfig:"WEBHOOK_BASE_URL"`
	CustomerPhoneNumber string `envconfig:"CUSTOMER_PHONE_NUMBER"`
}

// HasCredentials reports whether outbound calls can be placed.
func (c Config) HasCredentials() bool {
	return strings.TrimSpace(c.AccountSID) != "" &&
		strings.TrimSpace(c.AuthToken) != "" &&
		strings.TrimSpace(c.PhoneNumber) != ""
}

// CallbackURL joins the public webhook base with a route path. It returns "" when no base is configured.
func (c Config) CallbackURL(path string) string {
	base := strings.TrimRight(strings.TrimSpace(c.WebhookBaseURL), "/")
	if base == "" {
		return ""
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// Validate rejects settings the server cannot serve webhooks with. Signatures
// are computed over the public URL, so checking them needs WEBHOOK_BASE_URL.
func (c Config) Validate() error {
	if c.ValidateSignature && strings.TrimSpace(c.WebhookBaseURL) == "" {
		return errx.ConfigMissing("WEBHOOK_BASE_URL is required when TWILIO_VALIDATE_SIGNATURE is set")
	}
	return nil
}
