package users

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// User types mirror the roles the admin panel can assign.
const (
	TypeGeneral = "general"
	TypeOD      = "od"
	TypeMD      = "md"
	TypeAdmin   = "admin"
)

// Auth methods record how the account was established. A locally created
// account can later be claimed by an external login for the same email.
const (
	AuthLocal  = "local"
	AuthGoogle = "google"
)

// User is an account row. PasswordHash is empty for externally authenticated
// accounts. RefreshToken holds the single live refresh token, empty when none:
// overwriting it is the sole revocation mechanism.
type User struct {
	ID           int64     `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"user_type"`
	AuthMethod   string    `json:"auth_method"`
	IsBanned     bool      `json:"is_banned"`
	GoogleID     string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	RefreshToken string    `json:"-"`
	LastLogin    time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// ValidType reports whether t is one of the assignable user types.
func ValidType(t string) bool {
	switch t {
	case TypeGeneral, TypeOD, TypeMD, TypeAdmin:
		return true
	}
	return false
}

// ValidatePasswordStrength checks that a password is at least 8 characters
// and mixes upper case, lower case, and digits.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= '0' && char <= '9':
			hasNumber = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return errors.New("password must contain at least one number")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
