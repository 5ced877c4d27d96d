// Package otp generates short numeric codes for email verification.
package otp

import (
	"crypto/rand"
	"math/big"
)

// Generate returns a four digit code in [1000, 2000). The code is carried
// through the verification form round-trip, never persisted.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(n, big.NewInt(1000)).String(), nil
}
