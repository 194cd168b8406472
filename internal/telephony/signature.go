package telephony

import (
	"errors"
	"net/http"
	"strings"

	twclient "github.com/twilio/twilio-go/client"
)

// SignatureHeader carries Twilio's request signature.
const SignatureHeader = "X-Twilio-Signature"

var (
	ErrMissingSignature = errors.New("missing twilio signature")
	ErrInvalidSignature = errors.New("invalid twilio signature")
)

// SignatureVerifier checks that webhook requests were signed with the account auth token.
type SignatureVerifier struct {
	validator twclient.RequestValidator
	baseURL   string
}

// NewSignatureVerifier signs against baseURL plus the request URI, since the
// server usually sits behind a tunnel or proxy that rewrites the host.
func NewSignatureVerifier(authToken, baseURL string) *SignatureVerifier {
	return &SignatureVerifier{
		validator: twclient.NewRequestValidator(authToken),
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Verify checks r. The form must already be parsed.
func (v *SignatureVerifier) Verify(r *http.Request) error {
	sig := r.Header.Get(SignatureHeader)
	if sig == "" {
		return ErrMissingSignature
	}

	params := make(map[string]string, len(r.PostForm))
	for k, vals := range r.PostForm {
		if len(vals) > 0 {
			params[k] = vals[0]
		}
	}

	if !v.validator.Validate(v.baseURL+r.URL.RequestURI(), params, sig) {
		return ErrInvalidSignature
	}
	return nil
}
