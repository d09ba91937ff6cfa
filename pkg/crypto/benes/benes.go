// Package benes evaluates the Benes conditional-swap network of the
// Classic McEliece secret key and derives the code's support from it.
//
// The permutation is never materialized as an index array; it exists
// only as control bits driving masked swaps across bit planes, so
// neither timing nor the memory access pattern reveals its structure.
package benes

import (
	"fmt"

	"github.com/pqcore/mceliece/pkg/crypto/gf2m"
	"github.com/pqcore/mceliece/pkg/params"
)

// Network applies the permutation network of one variant.
type Network struct {
	v params.Variant
	f *gf2m.Field
}

// New builds the network evaluator for the given variant.
func New(v params.Variant) (*Network, error) {
	f, err := gf2m.NewField(v)
	if err != nil {
		return nil, err
	}
	return &Network{v: v, f: f}, nil
}

// Variant returns the parameter set the network was built for.
func (n *Network) Variant() params.Variant { return n.v }

// Field returns the arithmetic engine sharing the network's variant.
func (n *Network) Field() *gf2m.Field { return n.f }

// Apply permutes one bit plane of 2^m positions in place. cond holds the
// control bits for all 2m-1 layers, consumed in a fixed order, LSB first
// within each byte. Every pair is processed with a masked swap whether
// or not its control bit is set.
func (n *Network) Apply(plane, cond []byte) error {
	if len(plane) != n.v.PlaneBytes() {
		return fmt.Errorf("bit plane for %s must be exactly %d bytes, got %d", n.v.Name, n.v.PlaneBytes(), len(plane))
	}
	if err := n.v.CheckCond(len(cond)); err != nil {
		return err
	}

	m := int(n.v.GFBits)
	chunk := 1 << (m - 4) // control bytes per layer: 2^(m-1) bits

	// Strides double up to 2^(m-1) and mirror back down.
	for ell := 0; ell < 2*m-1; ell++ {
		lgs := ell
		if ell >= m {
			lgs = 2*(m-1) - ell
		}
		layer(plane, cond[ell*chunk:(ell+1)*chunk], 1<<lgs)
	}
	return nil
}

// layer runs one stage of conditional swaps with the given stride. One
// control bit per pair; the swap delta is ANDed with the bit so the
// identical loads, XORs and stores happen either way.
func layer(plane, cond []byte, s int) {
	total := len(plane) * 8
	idx := 0
	for i := 0; i < total; i += 2 * s {
		for j := i; j < i+s; j++ {
			c := cond[idx>>3] >> (idx & 7) & 1
			idx++

			k := j + s
			d := (plane[j>>3]>>(j&7) ^ plane[k>>3]>>(k&7)) & 1
			d &= c
			plane[j>>3] ^= d << (j & 7)
			plane[k>>3] ^= d << (k & 7)
		}
	}
}
