// Package goppa evaluates the secret Goppa polynomial over the support.
// This is the decoding primitive: evaluating the error-locator
// polynomial at every support point yields a vector whose zero entries
// mark error positions.
package goppa

import (
	"fmt"

	"github.com/pqcore/mceliece/pkg/crypto/gf2m"
	"github.com/pqcore/mceliece/pkg/params"
)

// Eval returns f(a) by Horner's method, descending from the leading
// coefficient: exactly len(coeffs)-1 multiplications and additions, no
// branches on a. The zero polynomial evaluates to 0 everywhere.
func Eval(f *gf2m.Field, coeffs []gf2m.Elem, a gf2m.Elem) gf2m.Elem {
	if len(coeffs) == 0 {
		return 0
	}
	r := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		r = f.Mul(r, a)
		r = f.Add(r, coeffs[i])
	}
	return r
}

// RootFinder evaluates degree-t polynomials over full supports of one
// variant, enforcing the variant's length contracts at the boundary.
type RootFinder struct {
	v params.Variant
	f *gf2m.Field
}

// New builds a root finder for the given variant.
func New(v params.Variant) (*RootFinder, error) {
	f, err := gf2m.NewField(v)
	if err != nil {
		return nil, err
	}
	return &RootFinder{v: v, f: f}, nil
}

// Variant returns the parameter set the finder was built for.
func (rf *RootFinder) Variant() params.Variant { return rf.v }

// Field returns the underlying arithmetic engine, e.g. for IsZero scans
// over the returned vector.
func (rf *RootFinder) Field() *gf2m.Field { return rf.f }

// Roots returns the freshly allocated vector [f(a) for a in support].
// Scanning it for zeros and correcting errors is the decoder's job;
// mismatched lengths are contract violations, never truncated.
func (rf *RootFinder) Roots(coeffs, support []gf2m.Elem) ([]gf2m.Elem, error) {
	if err := rf.v.CheckPoly(len(coeffs)); err != nil {
		return nil, fmt.Errorf("root finder: %w", err)
	}
	if err := rf.v.CheckSupport(len(support)); err != nil {
		return nil, fmt.Errorf("root finder: %w", err)
	}

	out := make([]gf2m.Elem, len(support))
	for i, a := range support {
		out[i] = Eval(rf.f, coeffs, a)
	}
	return out, nil
}
