package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes the operator password. Costs outside bcrypt's range fall
// back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash operator password: %w", err)
	}
	return string(hashed), nil
}

// CheckHash rejects configured values that are not bcrypt hashes.
func CheckHash(hashed string) error {
	if _, err := bcrypt.Cost([]byte(hashed)); err != nil {
		return fmt.Errorf("operator password hash: %w", err)
	}
	return nil
}

// PasswordMatches reports whether plain hashes to hashed.
func PasswordMatches(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
