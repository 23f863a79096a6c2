package identity

// Role is the authority level of a user, either globally or within a team.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// String returns the role string
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role case-insensitively; an empty string yields RoleMember.
func ParseRole(s string) (Role, bool) {
	switch Role(toLower(s)) {
	case "":
		return RoleMember, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleMember:
		return RoleMember, true
	}
	return "", false
}
