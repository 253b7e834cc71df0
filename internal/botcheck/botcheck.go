// Package botcheck verifies human-verification tokens sent with public forms.
package botcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/clubhub/clubhub/internal/config"
)

// Verifier checks a client token. A false result with a nil error means the
// token was rejected.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// Recaptcha verifies tokens against the reCAPTCHA siteverify endpoint.
type Recaptcha struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewRecaptcha returns a verifier for the given secret.
func NewRecaptcha(secret, verifyURL string) *Recaptcha {
	return &Recaptcha{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if token == "" {
		return false, nil
	}
	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	var resp siteverifyResponse
	err := requests.URL(r.verifyURL).
		Client(r.client).
		BodyForm(form).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return false, fmt.Errorf("recaptcha verify: %w", err)
	}
	return resp.Success, nil
}

// Disabled accepts every token. Used in dev mode when no secret is configured.
type Disabled struct{}

func (Disabled) Verify(context.Context, string, string) (bool, error) { return true, nil }

// New returns the verifier for cfg. Without a secret, dev mode gets
// Disabled; callers validate config before this outside dev.
func New(cfg config.BotCheckConfig, dev bool) Verifier {
	if cfg.RecaptchaSecret == "" && dev {
		return Disabled{}
	}
	return NewRecaptcha(cfg.RecaptchaSecret, cfg.VerifyURL)
}
