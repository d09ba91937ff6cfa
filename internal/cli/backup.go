package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/hashicorp/vault/shamir"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	"github.com/pqcore/mceliece/internal/validation"
	"github.com/pqcore/mceliece/pkg/params"
	"github.com/pqcore/mceliece/pkg/secure"
)

// BackupResult is the JSON output of the backup command.
type BackupResult struct {
	Variant   string   `json:"variant,omitempty"`
	Threshold int      `json:"threshold"`
	Total     int      `json:"total"`
	Shares    []string `json:"shares"`
	Mnemonic  string   `json:"mnemonic,omitempty"`
}

func NewBackupCommand() *cobra.Command {
	var (
		variantName string
		condFile    string
		seedHex     string
		parts       int
		threshold   int
		asMnemonic  bool
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Shard control-bit key material into Shamir shares",
		Long: `Split secret control bits (or the 32-byte seed they derive from)
into Shamir shares so the permutation can be reconstructed from any
threshold subset. Seeds can additionally be rendered as a BIP39
mnemonic for offline storage.

Shares carry one byte of sharing overhead and are printed as hex.`,
		Example: `  # Shard a control-bit file into 5 shares, any 3 recover
  mceliece backup --variant mceliece348864 --cond-file cond.bin --parts 5 --threshold 3

  # Shard a seed and print it as a mnemonic as well
  mceliece backup --seed <64 hex chars> --parts 3 --threshold 2 --mnemonic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateSplitParams(parts, threshold); err != nil {
				return err
			}
			if condFile != "" && seedHex != "" {
				return fmt.Errorf("--cond-file and --seed are mutually exclusive")
			}

			var (
				secret  []byte
				err     error
				variant string
			)

			if seedHex != "" {
				secret, err = validation.DecodeHex(seedHex)
				if err != nil {
					return fmt.Errorf("invalid seed: %w", err)
				}
				if err := validation.ValidateSeed(secret); err != nil {
					return err
				}
			} else {
				v, err := params.ByName(variantName)
				if err != nil {
					return err
				}
				variant = v.Name
				secret, err = resolveCondBits(v, "", condFile, false)
				if err != nil {
					return err
				}
			}
			defer secure.Zero(secret)

			shares, err := shamir.Split(secret, parts, threshold)
			if err != nil {
				return fmt.Errorf("failed to split key material: %w", err)
			}

			result := BackupResult{
				Variant:   variant,
				Threshold: threshold,
				Total:     parts,
				Shares:    make([]string, len(shares)),
			}
			for i, share := range shares {
				result.Shares[i] = hex.EncodeToString(share)
			}

			if asMnemonic {
				if seedHex == "" {
					return fmt.Errorf("--mnemonic requires --seed; control-bit buffers are not valid entropy sizes")
				}
				mnemonic, err := bip39.NewMnemonic(secret)
				if err != nil {
					return fmt.Errorf("failed to build mnemonic: %w", err)
				}
				result.Mnemonic = mnemonic
			}

			if outputJSON, _ := cmd.Flags().GetBool("json"); outputJSON {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			printHeader(fmt.Sprintf("Backup shares (%d of %d required)", threshold, parts))
			for i, share := range result.Shares {
				color.Cyan("Share %d:", i+1)
				fmt.Println(share)
			}
			if result.Mnemonic != "" {
				color.Cyan("Seed mnemonic:")
				fmt.Println(result.Mnemonic)
			}
			color.Yellow("Store shares separately. Any %d of them reconstruct the secret.", threshold)
			return nil
		},
	}

	defaults := loadDefaults().Defaults
	cmd.Flags().StringVarP(&variantName, "variant", "V", defaults.Variant, "Parameter set of the control bits")
	cmd.Flags().StringVar(&condFile, "cond-file", "", "File holding the raw control-bit buffer")
	cmd.Flags().StringVar(&seedHex, "seed", "", "Back up a 32-byte hex seed instead of control bits")
	cmd.Flags().IntVarP(&parts, "parts", "p", defaults.Shares, "Number of shares to create")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", defaults.Threshold, "Shares required to reconstruct")
	cmd.Flags().BoolVar(&asMnemonic, "mnemonic", false, "Also print the seed as a BIP39 mnemonic")

	return cmd
}
