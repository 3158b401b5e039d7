// Package auth provides admin credential verification and session tokens.
// Credential checks are behind the Authenticator interface so the static
// single-admin setup can be swapped for a real identity provider without
// touching the handlers, which depend only on a valid session token.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/kuponlucky/raffle-api/internal/service"
)

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Verify(username, password string) error
}

// StaticAuthenticator checks credentials against a single configured admin
// account. The password is bcrypt-hashed at construction so the plaintext is
// not retained.
type StaticAuthenticator struct {
	username     string
	passwordHash []byte
}

// NewStaticAuthenticator creates an authenticator for the given account.
func NewStaticAuthenticator(username, password string) (*StaticAuthenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticAuthenticator{username: username, passwordHash: hash}, nil
}

// Verify returns service.ErrInvalidCredentials unless both username and
// password match the configured account.
func (a *StaticAuthenticator) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return service.ErrInvalidCredentials
	}
	return nil
}
