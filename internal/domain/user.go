package domain

// Credential is the bearer token issued for one user. It is replaced wholesale on
// re-login and deleted wholesale on logout.
type Credential struct {
	Token     string `json:"token"`
	IssuedFor string `json:"issued_for"`
}

// UserRecord is the point-in-time snapshot of the signed-in user taken at login.
type UserRecord struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	RoleNo   string `json:"role_no"`
	IsActive bool   `json:"is_active"`
}
