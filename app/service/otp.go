package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const otpDigits = 6

var otpSpace = big.NewInt(1000000)

// generateOtp draws a uniform 6-digit numeric code. Codes below 100000 are
// kept and zero-padded rather than redrawn, so the full decimal space stays
// available.
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
