// Package gate is a small policy registry for resource authorization.
// A Gate maps resource type names ("post", "event", ...) to Policies; each
// Policy decides whether a subject may perform an Action on a resource.
//
// The subject type is generic so the same registry works with a bare account
// id or with a full decoded credential:
//   - Gate[string] for id based checks
//   - Gate[auth.Identity] for credential based checks
package gate

import "context"

// Gate is the central authorization checkpoint.
// U is the subject type; its zero value means "no subject".
type Gate[U comparable] struct {
	policies map[string]Policy[U]
}

// NewGate creates an empty Gate ready to register policies.
func NewGate[U comparable]() *Gate[U] {
	return &Gate[U]{policies: make(map[string]Policy[U])}
}

// Register adds a policy for a resource type, replacing any previous one.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns ErrUnauthorized for a zero subject or a denied action,
// and ErrNoPolicyDefined when resourceType has no registered policy.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	p, ok := g.policies[resourceType]
	if !ok {
		return ErrNoPolicyDefined
	}
	if !p.Can(ctx, user, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

// Can reports whether Authorize would succeed.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}
