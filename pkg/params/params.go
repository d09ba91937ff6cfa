// Package params defines the parameter sets of the supported Classic
// McEliece variants and the size contracts derived from them.
//
// Every buffer the computational core touches is sized by one of these
// variants; the Check* helpers are the single place those contracts are
// spelled out.
package params

import "fmt"

// PolyTap is one term of the degree-t reduction polynomial defining
// GF((2^m)^t). Folding the coefficient of y^(t+k) adds Coeff times that
// value to the coefficient of y^(Offset+k).
type PolyTap struct {
	Offset int
	Coeff  uint16
}

// Variant fixes one parameter set of the KEM family: field width, field
// polynomial, code length, error-correction degree, and the reduction
// taps of the degree-t extension field.
//
// The tap tables are the published constants for each variant and are
// reproduced verbatim rather than derived; swapping in a different but
// "equivalent looking" polynomial yields an incompatible field.
type Variant struct {
	Name      string
	GFBits    uint
	FieldPoly uint64 // r(x), where the field polynomial is x^GFBits + r(x)
	SysN      int
	SysT      int
	PolyTaps  []PolyTap
}

var (
	// McEliece348864 uses GF(2^12) with x^12 + x^3 + 1 and
	// GF((2^12)^64) modulo y^64 + y^3 + y + x.
	McEliece348864 = Variant{
		Name:      "mceliece348864",
		GFBits:    12,
		FieldPoly: 0x009,
		SysN:      3488,
		SysT:      64,
		PolyTaps: []PolyTap{
			{Offset: 3, Coeff: 1},
			{Offset: 1, Coeff: 1},
			{Offset: 0, Coeff: 2},
		},
	}

	// McEliece6688128 uses GF(2^13) with x^13 + x^4 + x^3 + x + 1 and
	// GF((2^13)^128) modulo y^128 + y^7 + y^2 + y + 1.
	McEliece6688128 = Variant{
		Name:      "mceliece6688128",
		GFBits:    13,
		FieldPoly: 0x01B,
		SysN:      6688,
		SysT:      128,
		PolyTaps: []PolyTap{
			{Offset: 7, Coeff: 1},
			{Offset: 2, Coeff: 1},
			{Offset: 1, Coeff: 1},
			{Offset: 0, Coeff: 1},
		},
	}
)

// Variants lists every parameter set shipped with this module.
var Variants = []Variant{McEliece348864, McEliece6688128}

// ByName returns the shipped variant with the given name.
func ByName(name string) (Variant, error) {
	for _, v := range Variants {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}

// FieldSize returns 2^m, the number of field elements.
func (v Variant) FieldSize() int { return 1 << v.GFBits }

// GFMask returns the m-bit mask every stored field element satisfies.
func (v Variant) GFMask() uint16 { return uint16(1<<v.GFBits - 1) }

// PolyLen returns the coefficient count t+1 of the Goppa polynomial.
func (v Variant) PolyLen() int { return v.SysT + 1 }

// CondBytes returns the size of the Benes control-bit buffer:
// 2^(m-4) bytes per layer times 2m-1 layers.
func (v Variant) CondBytes() int { return (1 << (v.GFBits - 4)) * (2*int(v.GFBits) - 1) }

// PlaneBytes returns the size of one bit plane covering all 2^m
// positions, packed eight per byte.
func (v Variant) PlaneBytes() int { return 1 << (v.GFBits - 3) }

// Validate checks the parameter set for internal consistency.
func (v Variant) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("variant name cannot be empty")
	}
	if v.GFBits < 8 || v.GFBits > 13 {
		return fmt.Errorf("field width must be between 8 and 13 bits, got %d", v.GFBits)
	}
	if v.FieldPoly == 0 || v.FieldPoly&1 == 0 {
		return fmt.Errorf("field polynomial of %s must have a constant term", v.Name)
	}
	if v.FieldPoly >= 1<<v.GFBits {
		return fmt.Errorf("field polynomial remainder of %s must stay below x^%d", v.Name, v.GFBits)
	}
	if v.SysN < 1 || v.SysN > v.FieldSize() {
		return fmt.Errorf("code length of %s must be between 1 and %d, got %d", v.Name, v.FieldSize(), v.SysN)
	}
	if v.SysT < 2 || v.SysT >= v.SysN {
		return fmt.Errorf("error-correction degree of %s must be between 2 and n-1, got %d", v.Name, v.SysT)
	}
	if len(v.PolyTaps) == 0 {
		return fmt.Errorf("variant %s has no extension-field reduction taps", v.Name)
	}
	for _, tap := range v.PolyTaps {
		if tap.Offset < 0 || tap.Offset >= v.SysT {
			return fmt.Errorf("reduction tap offset %d of %s is outside [0, %d)", tap.Offset, v.Name, v.SysT)
		}
		if tap.Coeff == 0 || tap.Coeff > v.GFMask() {
			return fmt.Errorf("reduction tap coefficient %d of %s is not a field element", tap.Coeff, v.Name)
		}
	}
	return nil
}

// CheckCond validates the length of a control-bit buffer. Wrong sizes are
// contract violations and are never truncated or padded.
func (v Variant) CheckCond(n int) error {
	if n != v.CondBytes() {
		return fmt.Errorf("control bits for %s must be exactly %d bytes, got %d", v.Name, v.CondBytes(), n)
	}
	return nil
}

// CheckSupport validates the element count of a support slice.
func (v Variant) CheckSupport(n int) error {
	if n != v.SysN {
		return fmt.Errorf("support for %s must hold exactly %d elements, got %d", v.Name, v.SysN, n)
	}
	return nil
}

// CheckPoly validates the coefficient count of a Goppa polynomial.
func (v Variant) CheckPoly(n int) error {
	if n != v.PolyLen() {
		return fmt.Errorf("polynomial for %s must hold exactly %d coefficients, got %d", v.Name, v.PolyLen(), n)
	}
	return nil
}
