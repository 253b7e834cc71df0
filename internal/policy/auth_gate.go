// Package policy decides who may mutate which resource.
package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/gate"
	"github.com/clubhub/clubhub/httpx"
)

// Resource type names registered with the gate.
const (
	ResourceClub        = "club"
	ResourcePost        = "post"
	ResourceEvent       = "event"
	ResourceApplication = "application"
)

// Options tunes the default policy set.
type Options struct {
	// EventAdminOverride lets the super admin delete any event.
	EventAdminOverride bool
}

// AuthGate checks the caller in the request context against the
// registered resource policies.
type AuthGate struct {
	gate *gate.Gate[auth.Identity]
}

// NewAuthGate creates a gate with the ownership rules for every resource type:
// clubs, posts and applications are matched on the caller's club, events on
// the creating account.
func NewAuthGate(opts Options) *AuthGate {
	g := &AuthGate{gate: gate.NewGate[auth.Identity]()}

	clubOwnership := NewClubOwnershipPolicy()
	g.RegisterPolicy(ResourceClub, clubOwnership)
	g.RegisterPolicy(ResourcePost, clubOwnership)
	g.RegisterPolicy(ResourceApplication, clubOwnership)

	var events gate.Policy[auth.Identity] = NewCreatorPolicy()
	if opts.EventAdminOverride {
		events = NewAdminBypassPolicy(events, IsElevated)
	}
	g.RegisterPolicy(ResourceEvent, events)
	return g
}

// RegisterPolicy registers a policy for a resource type.
func (g *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[auth.Identity]) {
	g.gate.Register(resourceType, p)
}

// Authorize checks the caller in ctx. Denials come back as a Forbidden
// error, a missing caller as Unauthenticated.
func (g *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return httpx.Unauthenticated("no token, authorization denied")
	}
	err := g.gate.Authorize(ctx, id, action, resourceType, resource)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gate.ErrUnauthorized):
		return httpx.Forbidden("User not authorized")
	default:
		return fmt.Errorf("authorize %s %s: %w", action, resourceType, err)
	}
}

// Can reports whether the caller in ctx may perform action.
func (g *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, action, resourceType, resource) == nil
}
