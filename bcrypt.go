package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt work factor for user supplied passwords.
const passwordHashCost = 14

// HashPassword hashes a cleartext password for storage. Empty passwords are
// rejected before they reach bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(h), err
}

// ComparePasswordAndHash checks a cleartext password against a stored hash.
// A bcrypt mismatch surfaces as ErrMismatchedHashAndPassword; any other error
// means the stored hash itself is unusable.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash returns the hash of a random throwaway password. It
// backs accounts provisioned without credentials: the row holds a valid hash
// that matches no password until a reset replaces it. The throwaway value is
// a UUID hashed at the minimum cost.
func RandomPasswordHash() string {
	h, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.MinCost)
	if err != nil {
		return RandomPasswordHash()
	}
	return string(h)
}
