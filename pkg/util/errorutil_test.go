package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpstreamErrorKeepsRemoteStatus(t *testing.T) {
	err := NewUpstreamError(http.StatusNotFound, http.MethodGet, "api/Hospital/bankInfo", "missing")

	status, ok := UpstreamStatus(fmt.Errorf("list banks: %w", err))
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, status)

	domainErr := ToDomainError(err)
	assert.Equal(t, "UPSTREAM_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
	assert.Equal(t, "missing", domainErr.Details["body"])
}

func TestNewUpstreamErrorMapsServerFailuresToBadGateway(t *testing.T) {
	err := NewUpstreamError(http.StatusInternalServerError, http.MethodPost, "api/x", strings.Repeat("a", 2048))

	domainErr := ToDomainError(err)
	assert.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
	assert.Len(t, domainErr.Details["body"], maxUpstreamBody)
}

func TestUpstreamStatusIgnoresOtherErrors(t *testing.T) {
	_, ok := UpstreamStatus(NewUnauthorized("nope"))
	assert.False(t, ok)

	_, ok = UpstreamStatus(errors.New("plain"))
	assert.False(t, ok)
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	timeout := ToDomainError(fmt.Errorf("call: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, timeout.HTTPStatus)

	internal := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)

	notFound := ToDomainError(NewNotFound("bank", nil))
	assert.Equal(t, "bank not found", notFound.Message)
}
