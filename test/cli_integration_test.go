package test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pqcore/mceliece/internal/cli"
	"github.com/pqcore/mceliece/pkg/crypto/benes"
	"github.com/pqcore/mceliece/pkg/crypto/gf2m"
	"github.com/pqcore/mceliece/pkg/params"
)

const testSeedHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func decodeElementFile(t *testing.T, f *gf2m.Field, path string, count int) []gf2m.Elem {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	data, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	require.Len(t, data, 2*count)

	out := make([]gf2m.Elem, count)
	for i := range out {
		out[i] = f.Load(data[2*i : 2*i+2])
	}
	return out
}

func TestCLI_SupportFromSeed(t *testing.T) {
	v := params.McEliece348864
	outPath := filepath.Join(t.TempDir(), "support.hex")

	err := runCommand(t, cli.NewSupportCommand(),
		"--variant", v.Name,
		"--seed", testSeedHex,
		"--output", outPath,
	)
	require.NoError(t, err)

	net, err := benes.New(v)
	require.NoError(t, err)

	got := decodeElementFile(t, net.Field(), outPath, v.SysN)

	seed, err := hex.DecodeString(testSeedHex)
	require.NoError(t, err)
	cond, err := cli.DeriveCondBits(seed, v)
	require.NoError(t, err)
	want, err := net.SupportGen(cond)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestCLI_SupportFromCondFile(t *testing.T) {
	v := params.McEliece348864
	dir := t.TempDir()
	condPath := filepath.Join(dir, "cond.bin")
	outPath := filepath.Join(dir, "support.hex")

	seed, err := hex.DecodeString(testSeedHex)
	require.NoError(t, err)
	cond, err := cli.DeriveCondBits(seed, v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(condPath, cond, 0o600))

	err = runCommand(t, cli.NewSupportCommand(),
		"--variant", v.Name,
		"--cond-file", condPath,
		"--output", outPath,
	)
	require.NoError(t, err)

	// Raw control-bit file and seed expansion must agree.
	seedOut := filepath.Join(dir, "support-seed.hex")
	err = runCommand(t, cli.NewSupportCommand(),
		"--variant", v.Name,
		"--seed", testSeedHex,
		"--output", seedOut,
	)
	require.NoError(t, err)

	a, err := os.ReadFile(outPath)
	require.NoError(t, err)
	b, err := os.ReadFile(seedOut)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCLI_EvalOverStoredSupport(t *testing.T) {
	v := params.McEliece348864
	dir := t.TempDir()
	supportPath := filepath.Join(dir, "support.hex")
	valuesPath := filepath.Join(dir, "values.hex")

	err := runCommand(t, cli.NewSupportCommand(),
		"--variant", v.Name,
		"--seed", testSeedHex,
		"--output", supportPath,
	)
	require.NoError(t, err)

	net, err := benes.New(v)
	require.NoError(t, err)
	f := net.Field()
	support := decodeElementFile(t, f, supportPath, v.SysN)

	// x + support[5], padded with zero coefficients up to degree t.
	coeffs := make([]byte, 2*v.PolyLen())
	gf2m.Store(coeffs[0:2], support[5])
	gf2m.Store(coeffs[2:4], 1)

	err = runCommand(t, cli.NewEvalCommand(),
		"--variant", v.Name,
		"--poly", hex.EncodeToString(coeffs),
		"--support-file", supportPath,
		"--output", valuesPath,
	)
	require.NoError(t, err)

	values := decodeElementFile(t, f, valuesPath, v.SysN)
	for i, val := range values {
		want := f.Add(support[i], support[5])
		assert.Equal(t, want, val, "position %d", i)
	}
	assert.Equal(t, gf2m.Elem(0), values[5])
}

func TestCLI_ErrorHandling(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{
			name: "unknown variant",
			args: []string{"--variant", "mceliece9999", "--seed", testSeedHex},
		},
		{
			name: "seed not hex",
			args: []string{"--seed", "not hex at all"},
		},
		{
			name: "seed wrong length",
			args: []string{"--seed", "aabbcc"},
		},
		{
			name: "missing cond file",
			args: []string{"--cond-file", "/nonexistent/cond.bin"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := cli.NewSupportCommand()
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			err := runCommand(t, cmd, tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestCLI_EvalRequiresPolynomial(t *testing.T) {
	cmd := cli.NewEvalCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := runCommand(t, cmd, "--seed", testSeedHex)
	assert.Error(t, err)
}
