package validation

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/pqcore/mceliece/pkg/params"
)

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// SeedBytes is the size of a control-bit derivation seed.
const SeedBytes = 32

func ValidateHex(input string) error {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if len(input)%2 != 0 {
		return fmt.Errorf("hex string must have even length")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

// DecodeHex validates and decodes a hex string, tolerating surrounding
// whitespace.
func DecodeHex(input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if err := ValidateHex(input); err != nil {
		return nil, err
	}

	data, err := hex.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex: %w", err)
	}
	return data, nil
}

// ValidateCondBits checks a control-bit buffer against the variant's
// size contract. Wrong sizes are rejected outright; truncating or
// padding would silently change the permutation.
func ValidateCondBits(data []byte, v params.Variant) error {
	if err := v.CheckCond(len(data)); err != nil {
		return err
	}
	return nil
}

// ValidateSeed checks a derivation seed.
func ValidateSeed(data []byte) error {
	if len(data) != SeedBytes {
		return fmt.Errorf("seed must be %d bytes, got %d", SeedBytes, len(data))
	}
	return nil
}

// ValidateElementBytes checks a buffer that should decode into count
// 2-byte little-endian field elements.
func ValidateElementBytes(data []byte, count int) error {
	if len(data) != 2*count {
		return fmt.Errorf("expected %d field elements (%d bytes), got %d bytes", count, 2*count, len(data))
	}
	return nil
}

func ValidateSplitParams(parts, threshold int) error {
	if parts < 2 || parts > 255 {
		return fmt.Errorf("parts must be between 2 and 255 (got %d)", parts)
	}

	if threshold < 2 || threshold > parts {
		return fmt.Errorf("threshold must be between 2 and %d (got %d)", parts, threshold)
	}

	return nil
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}
