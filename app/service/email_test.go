package service

import (
	"errors"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"user@example.com", "user@example.com", false},
		{"  User@Example.COM  ", "user@example.com", false},
		{"A@X.com", "a@x.com", false},
		{"no-at-sign", "", true},
		{"@example.com", "", true},
		{"user@", "", true},
		{"user@localhost", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeEmail(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidEmail) {
				t.Errorf("NormalizeEmail(%q): expected ErrInvalidEmail, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeEmail(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
