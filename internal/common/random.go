package common

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateNumericCode returns a random decimal code of exactly digits length
// whose first digit is never zero (e.g. 100000..999999 for six digits).
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 {
		return "", nil
	}

	lower := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	span := new(big.Int).Mul(lower, big.NewInt(9))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}

	return n.Add(n, lower).String(), nil
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
