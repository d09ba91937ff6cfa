package cli

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/pqcore/mceliece/internal/validation"
	"github.com/pqcore/mceliece/pkg/params"
)

// DeriveCondBits expands a 32-byte seed into a full control-bit buffer
// for the variant using SHAKE256, the KEM family's own PRG. The same
// seed always yields the same permutation, which is what makes seeds a
// compact backup format for the support.
func DeriveCondBits(seed []byte, v params.Variant) ([]byte, error) {
	if err := validation.ValidateSeed(seed); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, v.CondBytes())
	sh := sha3.NewShake256()
	sh.Write([]byte(v.Name))
	sh.Write(seed)
	if _, err := sh.Read(out); err != nil {
		return nil, fmt.Errorf("failed to expand seed: %w", err)
	}
	return out, nil
}
