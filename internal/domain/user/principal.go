package user

// Role names carried in access tokens.
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
