package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateCode returns a uniformly random numeric one-time code of the given
// number of digits, left-padded with zeros.
func GenerateCode(digits int) (string, error) {
	if digits <= 0 {
		digits = 6
	}

	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
