// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tokenmint",
	Short: "TokenMint mints unbiased random tokens, identifiers and secrets",
	Long: `TokenMint mints random strings drawn from configurable character alphabets,
sourced from a cryptographically secure random byte stream. Rejection sampling
keeps character selection unbiased even when the alphabet size does not evenly
divide 256, so the minted tokens carry their full advertised entropy.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
