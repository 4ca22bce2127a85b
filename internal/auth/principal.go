package auth

import "github.com/spec-kit/hospital-portal/internal/domain"

// Claim types carried by an authenticated Principal.
const (
	ClaimNameIdentifier = "nameidentifier"
	ClaimName           = "name"
	ClaimRole           = "role"
)

const authenticationType = "ServerAuth"

// Claim is one named fact about the principal.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Principal is the UI-facing view of who is signed in.
type Principal struct {
	Authenticated      bool    `json:"authenticated"`
	AuthenticationType string  `json:"authentication_type,omitempty"`
	Claims             []Claim `json:"claims"`
}

// Anonymous is the principal of a session nobody is signed in to.
func Anonymous() Principal {
	return Principal{Claims: []Claim{}}
}

// PrincipalFor builds the authenticated principal of user.
func PrincipalFor(user domain.UserRecord) Principal {
	return Principal{
		Authenticated:      true,
		AuthenticationType: authenticationType,
		Claims: []Claim{
			{Type: ClaimNameIdentifier, Value: user.UserID},
			{Type: ClaimName, Value: user.Username},
			{Type: ClaimRole, Value: user.RoleNo},
		},
	}
}

// Find returns the first claim of claimType.
func (p Principal) Find(claimType string) (string, bool) {
	for _, c := range p.Claims {
		if c.Type == claimType {
			return c.Value, true
		}
	}
	return "", false
}

// Name is the display name claim, empty for anonymous principals.
func (p Principal) Name() string {
	name, _ := p.Find(ClaimName)
	return name
}
