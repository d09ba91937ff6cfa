package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pqcore/mceliece/pkg/params"
	"github.com/pqcore/mceliece/pkg/secure"
	"github.com/pqcore/mceliece/pkg/storage"
)

func NewKeystoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keystore",
		Short: "Manage password-encrypted control-bit keystores",
		Long: `Store secret control bits in a password-encrypted file so they can
be reused by the support and eval commands without re-entering the raw
key material. Files are encrypted with AES-GCM under a PBKDF2-derived
key.`,
	}

	cmd.AddCommand(newKeystoreSaveCommand())
	cmd.AddCommand(newKeystoreShowCommand())
	cmd.AddCommand(newKeystoreDeleteCommand())

	return cmd
}

func newKeystoreSaveCommand() *cobra.Command {
	var (
		variantName string
		condFile    string
		seedHex     string
		useStdin    bool
	)

	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Encrypt control bits into a keystore file",
		Args:  cobra.ExactArgs(1),
		Example: `  # Store control bits derived from a seed
  mceliece keystore save key.enc --seed <64 hex chars>

  # Store an existing control-bit file
  mceliece keystore save key.enc --cond-file cond.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := params.ByName(variantName)
			if err != nil {
				return err
			}

			cond, err := resolveCondBits(v, seedHex, condFile, useStdin)
			if err != nil {
				return err
			}
			defer secure.Zero(cond)

			password, err := readSecretLine("Keystore password: ")
			if err != nil {
				return err
			}
			defer secure.Zero(password)

			minLen := loadDefaults().Security.MinPasswordLength
			if len(password) < minLen {
				return fmt.Errorf("password must be at least %d characters", minLen)
			}

			confirm, err := readSecretLine("Confirm password: ")
			if err != nil {
				return err
			}
			defer secure.Zero(confirm)
			if !secure.ConstantTimeCompare(password, confirm) {
				return fmt.Errorf("passwords do not match")
			}

			store := storage.NewKeyStorage(args[0])
			if err := store.SaveKey(v.Name, cond, password); err != nil {
				return fmt.Errorf("failed to save keystore: %w", err)
			}

			color.Green("✓ %s control bits stored in %s", v.Name, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&variantName, "variant", "V", defaultVariantName(), "Parameter set of the control bits")
	cmd.Flags().StringVar(&condFile, "cond-file", "", "File holding the raw control-bit buffer")
	cmd.Flags().StringVar(&seedHex, "seed", "", "32-byte hex seed to expand into control bits")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "Read control bits as hex from stdin")

	return cmd
}

func newKeystoreShowCommand() *cobra.Command {
	var printHex bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Inspect a keystore file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readSecretLine("Keystore password: ")
			if err != nil {
				return err
			}
			defer secure.Zero(password)

			key, err := storage.NewKeyStorage(args[0]).LoadKey(password)
			if err != nil {
				return fmt.Errorf("failed to open keystore: %w", err)
			}
			defer secure.Zero(key.CondBits)

			printHeader(fmt.Sprintf("Keystore %s", args[0]))
			fmt.Printf("Variant: %s\n", key.Variant)
			fmt.Printf("Control bits: %d bytes\n", len(key.CondBits))
			if printHex {
				fmt.Println(hex.EncodeToString(key.CondBits))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printHex, "hex", false, "Print the decrypted control bits as hex")

	return cmd
}

func newKeystoreDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file>",
		Short: "Overwrite and remove a keystore file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.NewKeyStorage(args[0])
			if !store.Exists() {
				return fmt.Errorf("keystore %s does not exist", args[0])
			}
			if err := store.Delete(); err != nil {
				return fmt.Errorf("failed to delete keystore: %w", err)
			}
			color.Green("✓ Keystore %s deleted", args[0])
			return nil
		},
	}
}
