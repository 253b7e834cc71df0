// Package payload defines the request bodies accepted by the API and
// validates them before handlers see them.
package payload

import (
	"net/http"

	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/validation"
)

// normalizer is implemented by bodies that tidy their fields before validation.
type normalizer interface {
	Normalize()
}

// DecodeJSON reads a JSON body into v and validates it.
func DecodeJSON(r *http.Request, v validation.Validator) error {
	if err := httpx.DecodeJSON(r, v); err != nil {
		return err
	}
	return check(v)
}

// DecodeForm decodes parsed form fields into v and validates it.
func DecodeForm(r *http.Request, v validation.Validator) error {
	if err := httpx.DecodeForm(r, v); err != nil {
		return err
	}
	return check(v)
}

func check(v validation.Validator) error {
	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	if violations := v.Validate(); !violations.Empty() {
		return httpx.Invalid("invalid request", violations)
	}
	return nil
}
