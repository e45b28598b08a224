package service

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// validatePassword applies the account password policy to password and
// records failures under field.
func validatePassword(v *ValidationError, field, password string) {
	if len([]rune(password)) < minPasswordLength {
		v.Addf(field, "This password is too short. It must contain at least %d characters.", minPasswordLength)
	}

	var upper, lower, digit, space bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if space {
		v.Add(field, "The password must not contain whitespace.")
	}
	if !upper {
		v.Add(field, "The password must contain at least one uppercase letter.")
	}
	if !lower {
		v.Add(field, "The password must contain at least one lowercase letter.")
	}
	if !digit {
		v.Add(field, "The password must contain at least one digit.")
	}
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
