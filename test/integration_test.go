package test

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/hashicorp/vault/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pqcore/mceliece/internal/cli"
	"github.com/pqcore/mceliece/pkg/crypto/benes"
	"github.com/pqcore/mceliece/pkg/crypto/gf2m"
	"github.com/pqcore/mceliece/pkg/crypto/goppa"
	"github.com/pqcore/mceliece/pkg/params"
	"github.com/pqcore/mceliece/pkg/secure"
)

func TestFullWorkflow(t *testing.T) {
	for _, v := range params.Variants {
		v := v
		t.Run(v.Name, func(t *testing.T) {
			seed, err := hex.DecodeString(
				"6eb1b13578f2a2a441122ee1b2783047b0a36cdbd1f63e67064dbf2c2f2b0e44")
			require.NoError(t, err)
			defer secure.Zero(seed)

			cond, err := cli.DeriveCondBits(seed, v)
			require.NoError(t, err)
			require.Len(t, cond, v.CondBytes())
			defer secure.Zero(cond)

			net, err := benes.New(v)
			require.NoError(t, err)

			support, err := net.SupportGen(cond)
			require.NoError(t, err)
			require.Len(t, support, v.SysN)

			// The permuted support must still be a set of distinct
			// field elements.
			seen := make(map[gf2m.Elem]bool, v.SysN)
			for _, e := range support {
				assert.False(t, seen[e])
				seen[e] = true
			}

			f := net.Field()
			rf, err := goppa.New(v)
			require.NoError(t, err)

			// Build a polynomial vanishing at a handful of known
			// support positions and confirm the evaluator finds
			// exactly those positions.
			targets := []int{0, 17, v.SysN / 2, v.SysN - 1}
			coeffs := make([]gf2m.Elem, v.PolyLen())
			coeffs[0] = 1
			deg := 0
			for _, pos := range targets {
				r := support[pos]
				for i := deg; i >= 0; i-- {
					coeffs[i+1] = f.Add(coeffs[i+1], coeffs[i])
					coeffs[i] = f.Mul(coeffs[i], r)
				}
				deg++
			}

			images, err := rf.Roots(coeffs, support)
			require.NoError(t, err)

			for i, img := range images {
				isTarget := false
				for _, pos := range targets {
					if i == pos {
						isTarget = true
					}
				}
				if isTarget {
					assert.Equal(t, gf2m.Elem(0), img, "position %d", i)
				}
				assert.Equal(t, img, goppa.Eval(f, coeffs, support[i]))
			}
		})
	}
}

func TestSeedBackupRoundTrip(t *testing.T) {
	v := params.McEliece348864

	seed := bytes.Repeat([]byte{0xA7, 0x1C}, 16)
	cond, err := cli.DeriveCondBits(seed, v)
	require.NoError(t, err)

	shares, err := shamir.Split(seed, 5, 3)
	require.NoError(t, err)
	assert.Len(t, shares, 5)

	combinations := [][]int{
		{0, 1, 2},
		{2, 3, 4},
		{0, 2, 4},
	}
	for _, combo := range combinations {
		selected := make([][]byte, len(combo))
		for i, idx := range combo {
			selected[i] = shares[idx]
		}

		recovered, err := shamir.Combine(selected)
		require.NoError(t, err)
		require.True(t, secure.ConstantTimeCompare(seed, recovered))

		// Control bits re-derived from a recovered seed must
		// reproduce the original support exactly.
		cond2, err := cli.DeriveCondBits(recovered, v)
		require.NoError(t, err)
		assert.Equal(t, cond, cond2)
	}
}

func TestCondBitsBackupRoundTrip(t *testing.T) {
	v := params.McEliece348864

	rng := rand.New(rand.NewSource(1))
	cond := make([]byte, v.CondBytes())
	rng.Read(cond)

	shares, err := shamir.Split(cond, 3, 2)
	require.NoError(t, err)

	recovered, err := shamir.Combine([][]byte{shares[0], shares[2]})
	require.NoError(t, err)
	require.Equal(t, cond, recovered)

	net, err := benes.New(v)
	require.NoError(t, err)

	want, err := net.SupportGen(cond)
	require.NoError(t, err)
	got, err := net.SupportGen(recovered)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVariantsProduceDistinctSupports(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)

	supports := make(map[string][]gf2m.Elem)
	for _, v := range params.Variants {
		cond, err := cli.DeriveCondBits(seed, v)
		require.NoError(t, err)

		net, err := benes.New(v)
		require.NoError(t, err)

		support, err := net.SupportGen(cond)
		require.NoError(t, err)
		supports[v.Name] = support
	}

	a := supports[params.McEliece348864.Name]
	b := supports[params.McEliece6688128.Name]
	assert.NotEqual(t, a[:len(a)], b[:len(a)])
}

func TestSecureMemoryHandling(t *testing.T) {
	sensitive := []byte("control bit material")
	original := make([]byte, len(sensitive))
	copy(original, sensitive)

	secure.Zero(sensitive)
	assert.Equal(t, make([]byte, len(original)), sensitive)
	assert.NotEqual(t, original, sensitive)

	assert.True(t, secure.ConstantTimeCompare(original, original))
	assert.False(t, secure.ConstantTimeCompare(original, sensitive))
}

func BenchmarkFullWorkflow(b *testing.B) {
	v := params.McEliece348864
	seed := bytes.Repeat([]byte{0x5A}, 32)

	net, _ := benes.New(v)
	rf, _ := goppa.New(v)
	coeffs := make([]gf2m.Elem, v.PolyLen())
	coeffs[v.SysT] = 1
	coeffs[0] = 3

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cond, _ := cli.DeriveCondBits(seed, v)
		support, _ := net.SupportGen(cond)
		rf.Roots(coeffs, support)
	}
}
