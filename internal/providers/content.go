package providers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/feral-file/ff-events/internal/domain"
)

// ContentHash returns the hex SHA-256 digest of data
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyContentHash checks data against an optional expected digest and returns the actual digest.
// The expected digest may carry a 0x prefix and any letter case.
func VerifyContentHash(data []byte, expected string) (string, error) {
	actual := ContentHash(data)

	expected = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(expected), "0x"))
	if expected != "" && expected != actual {
		return "", fmt.Errorf("%w: expected %s, got %s", domain.ErrContentHashMismatch, expected, actual)
	}

	return actual, nil
}
