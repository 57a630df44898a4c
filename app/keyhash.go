package app

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(keyhashCmd)
}

var keyhashCmd = &cobra.Command{
	Use:   "keyhash [key]",
	Short: "Hash an API key for the webserver.apikeyhash config setting",
	Long: `Hash an API key with argon2id so it can be pasted into main.toml as
webserver.apikeyhash. The key is read from the argument, or from stdin when no
argument is given. Only the hash ever reaches the configuration; the service
compares presented X-API-Key headers against it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string

		if len(args) == 1 {
			key = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.Wrap(err, "reading api key from stdin")
			}

			key = strings.TrimRight(line, "\r\n")
		}

		if key == "" {
			return errEmptyAPIKey
		}

		hash, err := argon2id.CreateHash(key, argon2id.DefaultParams)
		if err != nil {
			return errors.Wrap(err, "hashing api key")
		}

		fmt.Fprintln(cmd.OutOrStdout(), hash)

		return nil
	},
}

// errEmptyAPIKey is returned when keyhash is invoked without a key.
var errEmptyAPIKey = errors.New("api key cannot be empty")
