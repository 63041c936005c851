package authorization

// UserRole is a casbin subject granted through the admin API token.
type UserRole string

const (
	// RoleAdmin manages bot configuration and inherits RoleUser.
	RoleAdmin UserRole = "admin"
	// RoleUser reads and deletes its own tickets.
	RoleUser UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Subjects keeps the known roles of a token, in order and without duplicates.
// Unknown role names never reach the policy enforcer.
func Subjects(roles []UserRole) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[UserRole]bool, len(roles))
	for _, r := range roles {
		if !r.IsValid() || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r.String())
	}
	return out
}
