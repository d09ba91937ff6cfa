// Package secure provides hygiene helpers for the secret key material
// the CLI handles: control-bit buffers, derivation seeds, and Shamir
// shares of either.
package secure

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites b with zeros. Commands defer this on every buffer that
// held control bits or a seed.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ConstantTimeCompare reports whether x and y are equal without leaking
// where they differ.
func ConstantTimeCompare(x, y []byte) bool {
	if len(x) != len(y) {
		return false
	}
	return subtle.ConstantTimeCompare(x, y) == 1
}
