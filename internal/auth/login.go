package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credentials holds the configured admin identity. The password is stored
// only as a bcrypt hash; there is no plain-text comparison path.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Verify checks a submitted username/password pair. Inputs are trimmed the
// way the login form delivers them.
func (cr Credentials) Verify(username, password string) bool {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cr.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(cr.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}

// HashPassword produces a bcrypt hash for provisioning ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
