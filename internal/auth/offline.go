package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// OfflineOperator is the single local identity accepted when the authentication
// endpoint cannot be reached. It exists for offline and demo operation and is
// only built when AUTH_OFFLINE_FALLBACK is enabled.
type OfflineOperator struct {
	username     string
	passwordHash []byte
	tokens       *TokenIssuer
}

const (
	offlineUserID = "1"
	offlineRole   = "Admin"
)

// NewOfflineOperator hashes password once so the plaintext is not kept in memory.
// A bcryptCost outside bcrypt's range uses bcrypt.DefaultCost.
func NewOfflineOperator(username, password string, tokens *TokenIssuer, bcryptCost int) (*OfflineOperator, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("offline operator needs a username and password")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash offline operator password: %w", err)
	}
	return &OfflineOperator{username: username, passwordHash: hash, tokens: tokens}, nil
}

// Authenticate checks the allow-list. Usernames compare case-insensitively.
func (o *OfflineOperator) Authenticate(username, password string) (domain.Credential, domain.UserRecord, bool) {
	if !strings.EqualFold(username, o.username) {
		return domain.Credential{}, domain.UserRecord{}, false
	}
	if err := bcrypt.CompareHashAndPassword(o.passwordHash, []byte(password)); err != nil {
		return domain.Credential{}, domain.UserRecord{}, false
	}
	token, err := o.tokens.Issue(offlineUserID, offlineRole)
	if err != nil {
		return domain.Credential{}, domain.UserRecord{}, false
	}
	user := domain.UserRecord{
		UserID:   offlineUserID,
		Username: username,
		Email:    emailFor(username),
		Role:     offlineRole,
		RoleNo:   defaultRoleNo,
		IsActive: true,
	}
	return domain.Credential{Token: token, IssuedFor: user.UserID}, user, true
}
