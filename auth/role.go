package auth

// Role is the administrative tier of an account.
type Role string

const (
	// RoleSuperAdmin is the platform-wide tier; it manages no club.
	RoleSuperAdmin Role = "super_admin"
	// RoleClubAdmin manages exactly one club.
	RoleClubAdmin Role = "club_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleClubAdmin
}

// Identity is the verified caller asserted by a credential.
type Identity struct {
	SubjectID string `json:"id"`
	Role      Role   `json:"role"`
	ClubID    string `json:"clubId,omitempty"`
}

// IsElevated reports whether the identity holds the platform role.
func (i Identity) IsElevated() bool { return i.Role == RoleSuperAdmin }
