package benes

import "github.com/pqcore/mceliece/pkg/crypto/gf2m"

// SupportGen turns the secret control bits into the ordered support of
// the code. The bit-reversed index table is sliced into m single-bit
// planes, the same network is applied to every plane, and the planes are
// transposed back into the first n field elements.
//
// Running one permutation independently over m parallel single-bit
// tables is what reconstructs an m-bit permuted value per position; the
// planes are transient and discarded after extraction.
func (n *Network) SupportGen(cond []byte) ([]gf2m.Elem, error) {
	if err := n.v.CheckCond(len(cond)); err != nil {
		return nil, err
	}

	m := int(n.v.GFBits)
	planes := make([][]byte, m)
	for j := range planes {
		planes[j] = make([]byte, n.v.PlaneBytes())
	}

	for i := 0; i < n.v.FieldSize(); i++ {
		a := n.f.BitRev(gf2m.Elem(i))
		for j := 0; j < m; j++ {
			planes[j][i>>3] |= byte(a>>uint(j)&1) << (i & 7)
		}
	}

	for j := 0; j < m; j++ {
		if err := n.Apply(planes[j], cond); err != nil {
			return nil, err
		}
	}

	out := make([]gf2m.Elem, n.v.SysN)
	for i := range out {
		var s gf2m.Elem
		for j := m - 1; j >= 0; j-- {
			s <<= 1
			s |= gf2m.Elem(planes[j][i>>3] >> (i & 7) & 1)
		}
		out[i] = s
	}
	return out, nil
}
