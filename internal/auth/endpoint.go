package auth

import (
	"context"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
)

const loginEndpoint = "api/Login/Authentication"

// Endpoint is the remote authentication service.
type Endpoint interface {
	Authenticate(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type apiEndpoint struct {
	client *apiclient.Client
}

// NewAPIEndpoint posts credentials to the API's login endpoint.
func NewAPIEndpoint(client *apiclient.Client) Endpoint {
	return apiEndpoint{client: client}
}

func (e apiEndpoint) Authenticate(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	return apiclient.Post[dto.LoginRequest, dto.LoginResponse](ctx, e.client, loginEndpoint, req)
}
