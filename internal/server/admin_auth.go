package server

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var errNotAdmin = errors.New("invalid admin password")

// checkAdminPassword compares password against the configured bcrypt hash.
// With no hash configured any caller passes; the explicit confirm flag is
// then the only guard.
func checkAdminPassword(hash, password string) error {
	if hash == "" {
		return nil
	}
	if password == "" {
		return errNotAdmin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return errNotAdmin
	}
	return nil
}
