package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pqcore/mceliece/internal/validation"
	"github.com/pqcore/mceliece/pkg/crypto/benes"
	"github.com/pqcore/mceliece/pkg/crypto/gf2m"
	"github.com/pqcore/mceliece/pkg/crypto/goppa"
	"github.com/pqcore/mceliece/pkg/params"
	"github.com/pqcore/mceliece/pkg/secure"
)

// EvalResult is the JSON output of the eval command.
type EvalResult struct {
	Variant string `json:"variant"`
	Values  string `json:"values"`
	Zeros   []int  `json:"zeros,omitempty"`
}

func NewEvalCommand() *cobra.Command {
	var (
		variantName  string
		polyHex      string
		polyFile     string
		supportFile  string
		condFile     string
		seedHex      string
		keystoreFile string
		zerosOnly    bool
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a Goppa polynomial over a support",
		Long: `Evaluate a degree-t polynomial at every element of the support,
the primitive the decoder uses to locate error positions.

The polynomial is a hex stream of t+1 little-endian 2-byte
coefficients, lowest degree first. The support comes either from a
previous 'support' run (--support-file) or is derived on the fly from
control bits or a seed. With --zeros only the root positions are
printed.`,
		Example: `  # Evaluate over a stored support
  mceliece eval --poly-file goppa.hex --support-file support.hex

  # Derive the support from a seed and list the roots
  mceliece eval --poly <hex> --seed <64 hex chars> --zeros`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := params.ByName(variantName)
			if err != nil {
				return err
			}

			rf, err := goppa.New(v)
			if err != nil {
				return err
			}

			if polyFile != "" {
				raw, err := os.ReadFile(polyFile)
				if err != nil {
					return fmt.Errorf("failed to read polynomial: %w", err)
				}
				polyHex = validation.SanitizeInput(string(raw))
			}
			if polyHex == "" {
				return fmt.Errorf("a polynomial is required (--poly or --poly-file)")
			}

			polyBytes, err := validation.DecodeHex(polyHex)
			if err != nil {
				return fmt.Errorf("invalid polynomial: %w", err)
			}
			defer secure.Zero(polyBytes)

			coeffs, err := decodeElements(rf.Field(), polyBytes, v.PolyLen())
			if err != nil {
				return fmt.Errorf("invalid polynomial: %w", err)
			}

			support, err := resolveSupport(rf, supportFile, seedHex, condFile, keystoreFile)
			if err != nil {
				return err
			}

			values, err := rf.Roots(coeffs, support)
			if err != nil {
				return err
			}

			var zeros []int
			f := rf.Field()
			for i, val := range values {
				if f.IsZero(val) != 0 {
					zeros = append(zeros, i)
				}
			}

			if outputJSON, _ := cmd.Flags().GetBool("json"); outputJSON {
				res := EvalResult{Variant: v.Name, Zeros: zeros}
				if !zerosOnly {
					res.Values = hex.EncodeToString(encodeElements(values))
				}
				out, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			if zerosOnly {
				printHeader(fmt.Sprintf("Roots (%s): %d positions", v.Name, len(zeros)))
				for _, pos := range zeros {
					fmt.Println(pos)
				}
				return nil
			}

			printHeader(fmt.Sprintf("Evaluation (%s, %d values, %d roots)", v.Name, len(values), len(zeros)))
			return writeResult(outputFile, hex.EncodeToString(encodeElements(values)))
		},
	}

	cmd.Flags().StringVarP(&variantName, "variant", "V", defaultVariantName(), "Parameter set to use")
	cmd.Flags().StringVar(&polyHex, "poly", "", "Polynomial coefficients as hex")
	cmd.Flags().StringVar(&polyFile, "poly-file", "", "File holding the polynomial hex")
	cmd.Flags().StringVar(&supportFile, "support-file", "", "File holding a support hex stream")
	cmd.Flags().StringVar(&condFile, "cond-file", "", "Derive the support from this control-bit file")
	cmd.Flags().StringVar(&seedHex, "seed", "", "Derive the support from this 32-byte hex seed")
	cmd.Flags().StringVar(&keystoreFile, "keystore", "", "Derive the support from an encrypted keystore")
	cmd.Flags().BoolVar(&zerosOnly, "zeros", false, "Print only the root positions")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the result to a file instead of stdout")

	return cmd
}

// resolveSupport loads a stored support or derives one from control-bit
// material.
func resolveSupport(rf *goppa.RootFinder, supportFile, seedHex, condFile, keystoreFile string) ([]gf2m.Elem, error) {
	v := rf.Variant()

	if supportFile != "" {
		raw, err := os.ReadFile(supportFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read support: %w", err)
		}
		data, err := validation.DecodeHex(validation.SanitizeInput(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("invalid support: %w", err)
		}
		return decodeElements(rf.Field(), data, v.SysN)
	}

	if seedHex == "" && condFile == "" && keystoreFile == "" {
		return nil, fmt.Errorf("a support source is required (--support-file, --cond-file, --keystore, or --seed)")
	}

	var (
		cond []byte
		err  error
	)
	if keystoreFile != "" {
		cond, err = loadKeystoreCond(v, keystoreFile)
	} else {
		cond, err = resolveCondBits(v, seedHex, condFile, false)
	}
	if err != nil {
		return nil, err
	}
	defer secure.Zero(cond)

	net, err := benes.New(v)
	if err != nil {
		return nil, err
	}

	color.Yellow("Deriving support from control bits...")
	return net.SupportGen(cond)
}
