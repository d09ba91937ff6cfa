package benes

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pqcore/mceliece/pkg/crypto/gf2m"
	"github.com/pqcore/mceliece/pkg/params"
)

func newNetwork(t *testing.T, v params.Variant) *Network {
	t.Helper()
	n, err := New(v)
	require.NoError(t, err)
	return n
}

func TestApplySizeContracts(t *testing.T) {
	n := newNetwork(t, params.McEliece348864)
	v := n.Variant()

	plane := make([]byte, v.PlaneBytes())
	cond := make([]byte, v.CondBytes())

	assert.NoError(t, n.Apply(plane, cond))
	assert.Error(t, n.Apply(plane[:len(plane)-1], cond))
	assert.Error(t, n.Apply(plane, cond[:len(cond)-1]))
	assert.Error(t, n.Apply(plane, append(cond, 0)))
}

func TestApplyZeroControlBitsIsIdentity(t *testing.T) {
	n := newNetwork(t, params.McEliece348864)
	v := n.Variant()

	plane := make([]byte, v.PlaneBytes())
	rng := rand.New(rand.NewSource(11))
	for i := range plane {
		plane[i] = byte(rng.Intn(256))
	}
	want := append([]byte(nil), plane...)

	cond := make([]byte, v.CondBytes())
	require.NoError(t, n.Apply(plane, cond))
	assert.Equal(t, want, plane)
}

func TestApplySingleControlBitSwapsOnePair(t *testing.T) {
	n := newNetwork(t, params.McEliece348864)
	v := n.Variant()

	// Position 0 set, position 1 clear; the first control bit of the
	// first stride-1 layer swaps exactly that pair.
	plane := make([]byte, v.PlaneBytes())
	plane[0] = 0x01

	cond := make([]byte, v.CondBytes())
	cond[0] = 0x01

	require.NoError(t, n.Apply(plane, cond))
	assert.Equal(t, byte(0x02), plane[0])
	for _, b := range plane[1:] {
		assert.Equal(t, byte(0), b)
	}
}

// referencePermute runs the same network over an array of values,
// swapping with plain branches. The bit-sliced evaluator must agree
// with it for every control-bit setting.
func referencePermute(v params.Variant, values []gf2m.Elem, cond []byte) {
	m := int(v.GFBits)
	total := v.FieldSize()
	idx := 0
	for ell := 0; ell < 2*m-1; ell++ {
		lgs := ell
		if ell >= m {
			lgs = 2*(m-1) - ell
		}
		s := 1 << lgs
		for i := 0; i < total; i += 2 * s {
			for j := i; j < i+s; j++ {
				if cond[idx>>3]>>(idx&7)&1 == 1 {
					values[j], values[j+s] = values[j+s], values[j]
				}
				idx++
			}
		}
	}
}

func TestSupportGenMatchesReferencePermutation(t *testing.T) {
	for _, v := range params.Variants {
		v := v
		t.Run(v.Name, func(t *testing.T) {
			n := newNetwork(t, v)
			f := n.Field()

			cond := make([]byte, v.CondBytes())
			rng := rand.New(rand.NewSource(99))
			for i := range cond {
				cond[i] = byte(rng.Intn(256))
			}

			got, err := n.SupportGen(cond)
			require.NoError(t, err)
			require.Len(t, got, v.SysN)

			want := make([]gf2m.Elem, v.FieldSize())
			for i := range want {
				want[i] = f.BitRev(gf2m.Elem(i))
			}
			referencePermute(v, want, cond)

			assert.Equal(t, want[:v.SysN], got)
		})
	}
}

func TestSupportGenZeroControlBits(t *testing.T) {
	for _, v := range params.Variants {
		v := v
		t.Run(v.Name, func(t *testing.T) {
			n := newNetwork(t, v)
			f := n.Field()

			sup, err := n.SupportGen(make([]byte, v.CondBytes()))
			require.NoError(t, err)

			for i, s := range sup {
				assert.Equal(t, f.BitRev(gf2m.Elem(i)), s, "support[%d]", i)
			}
		})
	}
}

func TestSupportGenSingleControlBit(t *testing.T) {
	v := params.McEliece348864
	n := newNetwork(t, v)
	f := n.Field()

	cond := make([]byte, v.CondBytes())
	cond[0] = 0x01

	sup, err := n.SupportGen(cond)
	require.NoError(t, err)

	// Only the first pair is swapped.
	assert.Equal(t, f.BitRev(1), sup[0])
	assert.Equal(t, gf2m.Elem(0), sup[1])
	for i := 2; i < 8; i++ {
		assert.Equal(t, f.BitRev(gf2m.Elem(i)), sup[i])
	}
}

func TestSupportGenGolden(t *testing.T) {
	v := params.McEliece348864
	n := newNetwork(t, v)

	sup, err := n.SupportGen(make([]byte, v.CondBytes()))
	require.NoError(t, err)

	// Bit reversal of 0..7 over 12 bits.
	want := []gf2m.Elem{0, 2048, 1024, 3072, 512, 2560, 1536, 3584}
	assert.Equal(t, want, sup[:8])
}

func TestSupportGenSizeContract(t *testing.T) {
	n := newNetwork(t, params.McEliece6688128)

	_, err := n.SupportGen(make([]byte, 5888)) // the other variant's size
	assert.Error(t, err)
}
