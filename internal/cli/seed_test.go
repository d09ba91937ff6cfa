package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pqcore/mceliece/pkg/params"
)

func TestDeriveCondBitsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)

	a, err := DeriveCondBits(seed, params.McEliece348864)
	require.NoError(t, err)
	assert.Len(t, a, params.McEliece348864.CondBytes())

	b, err := DeriveCondBits(seed, params.McEliece348864)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveCondBitsSeparatesVariantsAndSeeds(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	other := bytes.Repeat([]byte{0x43}, 32)

	a, err := DeriveCondBits(seed, params.McEliece348864)
	require.NoError(t, err)

	b, err := DeriveCondBits(other, params.McEliece348864)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	c, err := DeriveCondBits(seed, params.McEliece6688128)
	require.NoError(t, err)
	assert.NotEqual(t, len(a), len(c))
	assert.NotEqual(t, a, c[:len(a)])
}

func TestDeriveCondBitsRejectsBadSeed(t *testing.T) {
	_, err := DeriveCondBits(make([]byte, 31), params.McEliece348864)
	assert.Error(t, err)

	_, err = DeriveCondBits(nil, params.McEliece348864)
	assert.Error(t, err)
}
