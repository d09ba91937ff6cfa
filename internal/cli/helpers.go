package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/pqcore/mceliece/internal/validation"
	"github.com/pqcore/mceliece/pkg/config"
	"github.com/pqcore/mceliece/pkg/crypto/gf2m"
	"github.com/pqcore/mceliece/pkg/params"
	"github.com/pqcore/mceliece/pkg/secure"
	"github.com/pqcore/mceliece/pkg/storage"
)

var (
	defaultsOnce sync.Once
	cliDefaults  *config.Config
)

// loadDefaults reads the user configuration once per process. A
// missing or invalid config file silently falls back to defaults.
func loadDefaults() *config.Config {
	defaultsOnce.Do(func() {
		cliDefaults = config.Load()
	})
	return cliDefaults
}

func defaultVariantName() string { return loadDefaults().Defaults.Variant }

// readSecretLine reads one line of secret input without echo, falling
// back to a plain line read when stdin is not a terminal.
func readSecretLine(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return nil, err
		}
		return raw, nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}

// readSecretHex reads hex-encoded secret material without echo.
func readSecretHex(prompt string) ([]byte, error) {
	raw, err := readSecretLine(prompt)
	if err != nil {
		return nil, err
	}
	return validation.DecodeHex(strings.TrimSpace(string(raw)))
}

// readHexFromStdin consumes all of stdin as one hex string.
func readHexFromStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return validation.DecodeHex(validation.SanitizeInput(string(data)))
}

// resolveCondBits obtains a control-bit buffer for the variant from one
// of the supported sources, in priority order: a seed (expanded with
// SHAKE256), a file of raw bytes, hex on stdin, or interactive no-echo
// hex entry.
func resolveCondBits(v params.Variant, seedHex, condFile string, useStdin bool) ([]byte, error) {
	switch {
	case seedHex != "":
		seed, err := validation.DecodeHex(seedHex)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %w", err)
		}
		return DeriveCondBits(seed, v)

	case condFile != "":
		data, err := os.ReadFile(condFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read control bits: %w", err)
		}
		if err := validation.ValidateCondBits(data, v); err != nil {
			return nil, err
		}
		return data, nil

	case useStdin:
		data, err := readHexFromStdin()
		if err != nil {
			return nil, fmt.Errorf("invalid control bits on stdin: %w", err)
		}
		if err := validation.ValidateCondBits(data, v); err != nil {
			return nil, err
		}
		return data, nil

	default:
		data, err := readSecretHex("Enter control bits (hex): ")
		if err != nil {
			return nil, fmt.Errorf("failed to read control bits: %w", err)
		}
		if err := validation.ValidateCondBits(data, v); err != nil {
			return nil, err
		}
		return data, nil
	}
}

// loadKeystoreCond decrypts a control-bit buffer from a keystore file,
// prompting for the password, and checks it belongs to the requested
// parameter set.
func loadKeystoreCond(v params.Variant, path string) ([]byte, error) {
	password, err := readSecretLine("Keystore password: ")
	if err != nil {
		return nil, err
	}
	defer secure.Zero(password)

	key, err := storage.NewKeyStorage(path).LoadKey(password)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore: %w", err)
	}
	if key.Variant != v.Name {
		return nil, fmt.Errorf("keystore holds %s key material, expected %s", key.Variant, v.Name)
	}
	if err := validation.ValidateCondBits(key.CondBits, v); err != nil {
		return nil, err
	}
	return key.CondBits, nil
}

// encodeElements serializes field elements as the 2-byte little-endian
// stream the key formats use.
func encodeElements(elems []gf2m.Elem) []byte {
	out := make([]byte, 2*len(elems))
	for i, e := range elems {
		gf2m.Store(out[2*i:2*i+2], e)
	}
	return out
}

// decodeElements parses count masked field elements from a 2-byte
// little-endian stream.
func decodeElements(f *gf2m.Field, data []byte, count int) ([]gf2m.Elem, error) {
	if err := validation.ValidateElementBytes(data, count); err != nil {
		return nil, err
	}
	out := make([]gf2m.Elem, count)
	for i := range out {
		out[i] = f.Load(data[2*i : 2*i+2])
	}
	return out, nil
}

// writeResult writes content to a file when path is set, otherwise to
// stdout.
func writeResult(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	color.Green("✓ Written to %s", path)
	return nil
}

func printHeader(text string) {
	bold := color.New(color.FgCyan, color.Bold)
	bold.Println(text)
}
