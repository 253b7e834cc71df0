// Package auth issues and verifies credentials and carries the verified
// caller through the request context.
package auth

import (
	"context"
	"net/http"

	"github.com/clubhub/clubhub/httpx"
)

// HeaderName carries the signed credential.
const HeaderName = "x-auth-token"

type ctxKey string

const identityCtxKey = ctxKey("identity")

// AccountVerifier is an optional callback confirming that the account named
// by a credential still exists. A non-nil error means the lookup itself failed.
type AccountVerifier func(ctx context.Context, subjectID string) (bool, error)

// WithIdentity stores the verified caller in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext extracts the verified caller.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(Identity)
	if !ok || id.SubjectID == "" {
		return Identity{}, false
	}
	return id, true
}

// Middleware guards handlers with credential checks.
type Middleware struct {
	codec  *Codec
	verify AccountVerifier
}

// NewMiddleware returns a Middleware. verify may be nil.
func NewMiddleware(codec *Codec, verify AccountVerifier) *Middleware {
	return &Middleware{codec: codec, verify: verify}
}

// identify verifies the credential on r.
func (m *Middleware) identify(r *http.Request) (Identity, error) {
	token := r.Header.Get(HeaderName)
	if token == "" {
		return Identity{}, httpx.Unauthenticated("no token, authorization denied")
	}
	id, err := m.codec.Verify(token)
	if err != nil {
		return Identity{}, httpx.Unauthenticated("token is not valid or has expired")
	}
	if m.verify != nil {
		exists, err := m.verify(r.Context(), id.SubjectID)
		if err != nil {
			return Identity{}, httpx.Upstream("account lookup failed", err)
		}
		if !exists {
			return Identity{}, httpx.Unauthenticated("token is not valid or has expired")
		}
	}
	return id, nil
}

// Authenticate rejects requests without a valid credential and attaches the
// decoded identity to the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.identify(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireRole verifies the credential on its own, then admits only callers
// holding role.
func (m *Middleware) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := m.identify(r)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			if id.Role != role {
				httpx.WriteError(w, r, httpx.Forbidden("access denied"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
