package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenmint/tokenmint/internal/randstr"
)

func init() { //nolint: gochecknoinits
	mintCmd.Flags().IntVarP(&mintLength, "length", "l", defaultMintCmdLength, "Length of each minted string")

	mintCmd.Flags().IntVarP(&mintCount, "count", "c", 1, "Number of strings to mint")

	mintCmd.Flags().StringArrayVarP(
		&mintAlphabet,
		"alphabet",
		"a",
		nil,
		`Alphabet tag to draw from, repeatable ("a-z", "A-Z", "0-9", "-_"); defaults to all four`,
	)

	rootCmd.AddCommand(mintCmd)
}

// defaultMintCmdLength is the secret length the command uses when --length is absent.
const defaultMintCmdLength = 32

var (
	mintLength   int
	mintCount    int
	mintAlphabet []string

	mintCmd = &cobra.Command{
		Use:   "mint",
		Short: "Mint random strings on stdout, one per line",
		Long: `Mint random strings without starting the service. Nothing is persisted or
logged; the strings exist only on stdout. Needs no configuration file and no
database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := mintAlphabet
			if len(names) == 0 {
				names = []string{
					string(randstr.Lowercase),
					string(randstr.Uppercase),
					string(randstr.Digits),
					string(randstr.URLSafe),
				}
			}

			tags := make([]randstr.Alphabet, 0, len(names))

			for _, name := range names {
				tag, err := randstr.ParseAlphabet(name)
				if err != nil {
					return err
				}

				tags = append(tags, tag)
			}

			gen, err := randstr.NewGenerator(tags...)
			if err != nil {
				return err
			}

			for i := 0; i < mintCount; i++ {
				str, err := gen.Generate(mintLength)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), str)
			}

			return nil
		},
	}
)
