package service

import "strings"

// NormalizeEmail lowercases and trims an address. The normalized form is the
// account's natural key, so "User@X.com" and "user@x.com" are the same
// account.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || !strings.Contains(parts[1], ".") {
		return "", ErrInvalidEmail
	}

	return email, nil
}
