package gf2m

import "fmt"

// PolyMul multiplies two elements of the extension field GF((2^m)^t),
// given as length-t coefficient slices, and writes the product to out.
// The schoolbook convolution fills a 2t-1 buffer; the variant's tap
// recurrence then folds every coefficient of degree t or higher back
// down, highest degree first. out may alias a or b.
func (f *Field) PolyMul(out, a, b []Elem) error {
	t := f.sysT
	if len(a) != t || len(b) != t {
		return fmt.Errorf("extension-field operands must hold %d coefficients, got %d and %d", t, len(a), len(b))
	}
	if len(out) != t {
		return fmt.Errorf("extension-field product must hold %d coefficients, got %d", t, len(out))
	}

	prod := make([]Elem, 2*t-1)
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			prod[i+j] ^= f.Mul(a[i], b[j])
		}
	}

	for i := 2*t - 2; i >= t; i-- {
		for _, tap := range f.polyTaps {
			// The tap table is public per-variant configuration, so
			// this branch does not depend on secret data.
			if tap.Coeff == 1 {
				prod[i-t+tap.Offset] ^= prod[i]
			} else {
				prod[i-t+tap.Offset] ^= f.Mul(prod[i], Elem(tap.Coeff))
			}
		}
	}

	copy(out, prod[:t])
	return nil
}
