package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pqcore/mceliece/pkg/params"
)

func TestValidateHex(t *testing.T) {
	assert.NoError(t, ValidateHex("deadBEEF"))
	assert.NoError(t, ValidateHex("  00ff  "))

	assert.Error(t, ValidateHex(""))
	assert.Error(t, ValidateHex("abc"))
	assert.Error(t, ValidateHex("zz"))
}

func TestDecodeHex(t *testing.T) {
	data, err := DecodeHex(" 02ab \n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0xAB}, data)

	_, err = DecodeHex("xy")
	assert.Error(t, err)
}

func TestValidateCondBits(t *testing.T) {
	v := params.McEliece348864

	assert.NoError(t, ValidateCondBits(make([]byte, v.CondBytes()), v))
	assert.Error(t, ValidateCondBits(make([]byte, v.CondBytes()-1), v))
	assert.Error(t, ValidateCondBits(nil, v))
}

func TestValidateSeed(t *testing.T) {
	assert.NoError(t, ValidateSeed(make([]byte, 32)))
	assert.Error(t, ValidateSeed(make([]byte, 16)))
	assert.Error(t, ValidateSeed(nil))
}

func TestValidateElementBytes(t *testing.T) {
	assert.NoError(t, ValidateElementBytes(make([]byte, 10), 5))
	assert.Error(t, ValidateElementBytes(make([]byte, 9), 5))
}

func TestValidateSplitParams(t *testing.T) {
	assert.NoError(t, ValidateSplitParams(5, 3))
	assert.Error(t, ValidateSplitParams(1, 1))
	assert.Error(t, ValidateSplitParams(5, 6))
	assert.Error(t, ValidateSplitParams(256, 2))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "ab\ncd", SanitizeInput("  ab \r\n cd \r"))
}
