package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 12

// MinPasswordLength applies to seeded accounts.
const MinPasswordLength = 8

var ErrPasswordTooShort = errors.New("password is too short")

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword runs in constant time with respect to the hash contents.
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var dummyHash = sync.OnceValues(func() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("portfolio-timing-placeholder"), passwordCost)
	return string(hash), err
})

// DummyHash is a hash at the same cost as stored passwords. Comparing
// against it makes an unknown username cost as much as a wrong password.
func DummyHash() (string, error) {
	return dummyHash()
}
