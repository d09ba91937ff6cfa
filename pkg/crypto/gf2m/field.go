// Package gf2m implements arithmetic over the binary extension fields
// GF(2^m) used by the Classic McEliece variants.
//
// All operations run in time independent of operand values: loop bounds
// derive from the variant's field width, reduction is a fixed number of
// masked shift-XOR folds, and zero detection returns a selector mask
// instead of branching. Operands are secret key material, so none of
// this may be "simplified" into conditionals or lookup tables.
package gf2m

import (
	"fmt"

	"github.com/pqcore/mceliece/pkg/params"
)

// Elem is one field element, stored in the low m bits of a uint16.
// Every operation masks its result to the field width; functions that
// accept untrusted values mask them before use.
type Elem uint16

// IsZeroSentinel is the all-ones mask Field.IsZero returns for zero. It
// is wide enough to cover the mask of every supported field width.
const IsZeroSentinel Elem = 0x1FFF

// Field is the GF(2^m) arithmetic engine for one variant. It carries
// only construction-time constants and is safe for concurrent use.
type Field struct {
	bits     uint
	mask     Elem
	shifts   []uint // fold shift per term of the field polynomial remainder
	passes   int    // fold passes covering the widest unreduced product
	sysT     int
	polyTaps []params.PolyTap
}

// NewField builds the arithmetic engine for the given variant.
func NewField(v params.Variant) (*Field, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("invalid variant: %w", err)
	}

	f := &Field{
		bits:     v.GFBits,
		mask:     Elem(v.GFMask()),
		sysT:     v.SysT,
		polyTaps: v.PolyTaps,
	}

	// A bit at position m+k reduces to r(x) shifted by k, so each set
	// bit e of r(x) contributes a fold by m-e.
	top := uint(0)
	for e := uint(0); e < v.GFBits; e++ {
		if v.FieldPoly&(1<<e) != 0 {
			f.shifts = append(f.shifts, v.GFBits-e)
			top = e
		}
	}

	// Each pass lowers the highest set bit by at least minShift. The
	// widest product any operation produces is the double-square
	// multiply at bit 5(m-1).
	minShift := int(v.GFBits - top)
	for b := 5 * (int(v.GFBits) - 1); b >= int(v.GFBits); b -= minShift {
		f.passes++
	}

	return f, nil
}

// Bits returns the field width m.
func (f *Field) Bits() uint { return f.bits }

// Mask returns the m-bit mask of valid elements.
func (f *Field) Mask() Elem { return f.mask }

// Add returns a + b. Addition in characteristic 2 is XOR: self-inverse,
// commutative, identity 0.
func (f *Field) Add(a, b Elem) Elem { return a ^ b }

// IsZero returns IsZeroSentinel when a == 0 and zero otherwise. The
// result is a selector mask for branchless code, not a boolean; callers
// must AND with it rather than compare it.
func (f *Field) IsZero(a Elem) Elem {
	t := uint32(a) - 1
	return Elem(t >> 19)
}

// Mul returns the field product of a and b. Bit i of b gates the
// i-shifted copy of a into the accumulator through a multiply by 0 or
// 2^i, then the unreduced product is folded back through the field
// polynomial. The loop bound is the field width, never an operand value.
func (f *Field) Mul(a, b Elem) Elem {
	t0 := uint64(a)
	t1 := uint64(b)

	tmp := t0 * (t1 & 1)
	for i := uint(1); i < f.bits; i++ {
		tmp ^= t0 * (t1 & (1 << i))
	}

	return f.reduce(tmp)
}

// Sq returns a^2 via the bit-spread transform.
func (f *Field) Sq(a Elem) Elem {
	return f.reduce(spread(uint64(a & f.mask)))
}

// Sq2 returns a^4, spreading twice before a single reduction.
func (f *Field) Sq2(a Elem) Elem {
	return f.reduce(spread2(uint64(a & f.mask)))
}

// SqMul returns a^2 * b, fused so the square is never reduced on its
// own. Squaring/multiply chains dominate inversion, which is what these
// fast paths exist for.
func (f *Field) SqMul(a, b Elem) Elem {
	return f.reduce(f.convolve(spread(uint64(a&f.mask)), 2*f.bits-1, b))
}

// Sq2Mul returns a^4 * b.
func (f *Field) Sq2Mul(a, b Elem) Elem {
	return f.reduce(f.convolve(spread2(uint64(a&f.mask)), 4*f.bits-3, b))
}

// Inv returns the multiplicative inverse of a, computed as a^(2^m-2) by
// a fixed chain of fused square-multiplies and one final square. The
// chain length depends only on the field width. Inv(0) returns 0; the
// decoder relies on that convention, it is not an error.
func (f *Field) Inv(a Elem) Elem {
	a &= f.mask
	out := a
	for i := uint(1); i < f.bits-1; i++ {
		out = f.SqMul(out, a) // a^(2^i - 1) -> a^(2^(i+1) - 1)
	}
	return f.Sq(out) // a^(2^(m-1) - 1) squared is a^(2^m - 2)
}

// Div returns num/den, with Div(num, 0) == 0.
func (f *Field) Div(num, den Elem) Elem {
	return f.Mul(f.Inv(den), num)
}

// BitRev reverses the low m bits of a. Used to build the canonical index
// table the permutation network consumes.
func (f *Field) BitRev(a Elem) Elem {
	a = (a&0x00FF)<<8 | (a&0xFF00)>>8
	a = (a&0x0F0F)<<4 | (a&0xF0F0)>>4
	a = (a&0x3333)<<2 | (a&0xCCCC)>>2
	a = (a&0x5555)<<1 | (a&0xAAAA)>>1
	return a >> (16 - f.bits)
}

// Load reads a field element from two little-endian bytes and masks it
// to the field width. This is the required preprocessing step for every
// externally sourced element.
func (f *Field) Load(src []byte) Elem {
	_ = src[1]
	return (Elem(src[1])<<8 | Elem(src[0])) & f.mask
}

// Store writes a as two little-endian bytes.
func Store(dst []byte, a Elem) {
	_ = dst[1]
	dst[0] = byte(a)
	dst[1] = byte(a >> 8)
}

// convolve XORs a copy of b into the accumulator for every set bit of
// the spread operand, again gating through multiplies by 0 or 2^i.
func (f *Field) convolve(sp uint64, width uint, b Elem) uint64 {
	t1 := uint64(b & f.mask)

	x := t1 * (sp & 1)
	for i := uint(1); i < width; i++ {
		x ^= t1 * (sp & (1 << i))
	}
	return x
}

// reduce folds every bit at or above the field width back through the
// field polynomial. The pass count is fixed at construction, so the
// fold runs identically for every input.
func (f *Field) reduce(x uint64) Elem {
	for p := 0; p < f.passes; p++ {
		t := x &^ uint64(f.mask)
		x ^= t
		for _, s := range f.shifts {
			x ^= t >> s
		}
	}
	return Elem(x) & f.mask
}

// spread interleaves a zero bit after every bit of the low 16 bits, so
// that XOR-squaring becomes a plain reduction of the spread value.
func spread(x uint64) uint64 {
	x = (x | x<<8) & 0x00FF00FF
	x = (x | x<<4) & 0x0F0F0F0F
	x = (x | x<<2) & 0x33333333
	x = (x | x<<1) & 0x55555555
	return x
}

// spread2 places the low 16 bits four positions apart, the squared
// version of spread.
func spread2(x uint64) uint64 {
	x = (x | x<<24) & 0x000000FF000000FF
	x = (x | x<<12) & 0x000F000F000F000F
	x = (x | x<<6) & 0x0303030303030303
	x = (x | x<<3) & 0x1111111111111111
	return x
}
