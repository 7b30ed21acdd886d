package session

import (
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo/core"
)

var errBadPassword = errors.New("password mismatch")

// CredentialVerifier checks a login's credentials.
type CredentialVerifier interface {
	Verify(email, password string) error
}

// SentinelVerifier accepts any email with the sentinel password.
type SentinelVerifier struct {
	Password string
}

func (v SentinelVerifier) Verify(_, password string) error {
	if subtle.ConstantTimeCompare([]byte(v.Password), []byte(password)) != 1 {
		return errBadPassword
	}
	return nil
}

// BcryptVerifier accepts any email with the password matching Hash.
type BcryptVerifier struct {
	Hash []byte
}

func (v BcryptVerifier) Verify(_, password string) error {
	if err := bcrypt.CompareHashAndPassword(v.Hash, []byte(password)); err != nil {
		return errBadPassword
	}
	return nil
}

// NewVerifier prefers the configured bcrypt hash over the plain sentinel.
func NewVerifier(conf core.AuthConfig) CredentialVerifier {
	if conf.PasswordHash != "" {
		return BcryptVerifier{Hash: []byte(conf.PasswordHash)}
	}
	return SentinelVerifier{Password: conf.SentinelPassword}
}
