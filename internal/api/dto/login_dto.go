package dto

// LoginRequest is posted to the remote authentication endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	RoleNo   string `json:"roleNo"`
}

// LoginResponse is returned by the authentication endpoint on 2xx.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// LoginForm is the portal's own login payload (form or JSON).
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
