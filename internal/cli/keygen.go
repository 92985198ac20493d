package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/updater/internal/encryption"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Print a new random encryption key",
	Long: `Print a new Fernet key (32 random bytes, URL-safe base64).

Put the same key in encryption_key (or $UPDATER_ENCRYPTION_KEY) here and on
the ingestion service.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := encryption.GenerateKey()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
		return err
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
