package policy

import (
	"context"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/gate"
	"github.com/clubhub/clubhub/internal/models"
)

// ClubOwnershipPolicy lets a caller act on a resource only when the
// resource's club is the caller's club. Works with any models.ClubOwned.
type ClubOwnershipPolicy struct{}

// NewClubOwnershipPolicy creates a new club ownership policy.
func NewClubOwnershipPolicy() *ClubOwnershipPolicy {
	return &ClubOwnershipPolicy{}
}

// Can checks if the caller's club owns the resource.
// A nil resource (list) is allowed; callers without a club own nothing.
func (p *ClubOwnershipPolicy) Can(_ context.Context, id auth.Identity, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	owned, ok := resource.(models.ClubOwned)
	if !ok {
		// Resources without an owner reference are denied by default
		return false
	}
	return id.ClubID != "" && owned.OwnerClubID() == id.ClubID
}

// CreatorPolicy lets only the creating account act on a resource.
// There is no role override: the super admin is treated like anyone else.
type CreatorPolicy struct{}

// NewCreatorPolicy creates a new creator policy.
func NewCreatorPolicy() *CreatorPolicy {
	return &CreatorPolicy{}
}

// Can checks if the caller created the resource.
func (p *CreatorPolicy) Can(_ context.Context, id auth.Identity, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	created, ok := resource.(models.Created)
	if !ok {
		return false
	}
	return id.SubjectID != "" && created.GetCreatorID() == id.SubjectID
}

// AdminBypassPolicy wraps another policy and always allows access for admins.
type AdminBypassPolicy struct {
	inner       gate.Policy[auth.Identity]
	isAdminFunc func(ctx context.Context, id auth.Identity) bool
}

// NewAdminBypassPolicy creates a policy that bypasses inner for admins.
func NewAdminBypassPolicy(inner gate.Policy[auth.Identity], isAdminFunc func(ctx context.Context, id auth.Identity) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{
		inner:       inner,
		isAdminFunc: isAdminFunc,
	}
}

// Can checks if the caller is an admin, else falls back to inner.
func (p *AdminBypassPolicy) Can(ctx context.Context, id auth.Identity, action gate.Action, resource any) bool {
	if p.isAdminFunc(ctx, id) {
		return true
	}
	return p.inner.Can(ctx, id, action, resource)
}

// IsElevated reports whether id holds the platform role.
func IsElevated(_ context.Context, id auth.Identity) bool {
	return id.IsElevated()
}
