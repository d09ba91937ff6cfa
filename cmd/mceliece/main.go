package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pqcore/mceliece/internal/cli"
	"github.com/pqcore/mceliece/pkg/config"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if !config.Load().UI.UseColor {
		color.NoColor = true
	}

	rootCmd := &cobra.Command{
		Use:   "mceliece",
		Short: "Classic McEliece computational core toolkit",
		Long: `mceliece exposes the computational core of the Classic McEliece
KEM family as operator tooling: GF(2^m) field arithmetic, the Benes
permutation network that turns secret control bits into the code's
support, and Goppa polynomial evaluation over that support.

Key generation, encapsulation and decapsulation live in the
surrounding KEM; this tool works with the key material those layers
produce.`,
		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
	}

	rootCmd.AddCommand(
		cli.NewSupportCommand(),
		cli.NewEvalCommand(),
		cli.NewSelftestCommand(),
		cli.NewBackupCommand(),
		cli.NewRestoreCommand(),
		cli.NewKeystoreCommand(),
		cli.NewConfigCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
