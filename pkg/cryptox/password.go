package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost used when none is configured.
const DefaultPasswordCost = 12

// MinPasswordCost is the lowest cost accepted from configuration.
const MinPasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt reads. Longer inputs are
// rejected rather than truncated.
const MaxPasswordBytes = 72

var (
	// ErrEmptyPassword is returned when hashing an empty plaintext.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong is returned when hashing more than MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password must not exceed 72 bytes")
)

// PasswordHasher hashes and verifies passwords with bcrypt. The zero value
// uses DefaultPasswordCost.
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{Cost: cost}
}

func (h *PasswordHasher) cost() int {
	if h == nil || h.Cost == 0 {
		return DefaultPasswordCost
	}
	return h.Cost
}

// Hash returns a salted bcrypt hash of password. Two calls with the same
// input return different hashes.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether password matches hash. Malformed hashes, empty
// passwords and passwords over MaxPasswordBytes never match.
func (h *PasswordHasher) Verify(password, hash string) bool {
	if password == "" || hash == "" || len(password) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 16
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
