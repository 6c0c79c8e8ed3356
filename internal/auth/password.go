package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

// HashPassword returns the bcrypt hash of password. Passwords longer than
// model.MaxPasswordLength bytes are rejected with model.ErrPasswordTooLong.
func HashPassword(password string) (string, error) {
	if len(password) > model.MaxPasswordLength {
		return "", model.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
