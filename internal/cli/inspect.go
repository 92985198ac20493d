package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/updater/internal/artifact"
	"github.com/vvka-141/updater/internal/config"
	"github.com/vvka-141/updater/internal/encryption"
	"github.com/vvka-141/updater/internal/preview"
	"github.com/vvka-141/updater/pkg/updater"
)

type inspectFlagValues struct {
	format string
	schema bool
}

var inspectFlags inspectFlagValues

var inspectCmd = &cobra.Command{
	Use:   "inspect <config_path> <artifact_file>",
	Short: "Decrypt and print an exported artifact",
	Long: `Decrypt an artifact written by 'updater_app --dry-run --output-dir', decode it,
and print its rows. The encryption key is read from the config file or
$UPDATER_ENCRYPTION_KEY.

Output is a table on a terminal and CSV otherwise; --format overrides.`,
	Args:         RequireInspectArgs,
	RunE:         runInspect,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectFlags.format, "format", "auto",
		"Output format: auto|table|csv")
	inspectCmd.Flags().BoolVar(&inspectFlags.schema, "schema", false,
		"Print column names and kinds instead of rows")
}

func resetInspectFlags() {
	inspectFlags = inspectFlagValues{format: "auto"}
}

func runInspect(cmd *cobra.Command, args []string) error {
	configPath, artifactPath := args[0], args[1]
	out := cmd.OutOrStdout()

	format, err := parseFormat(inspectFlags.format, out)
	if err != nil {
		return err
	}

	_ = godotenv.Load()
	file, err := config.Load(configPath)
	if err != nil {
		return err
	}
	file.ApplyEnv(os.LookupEnv)

	token, err := os.ReadFile(artifactPath)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", artifactPath, err)
	}

	plain, err := encryption.Decrypt(token, file.EncryptionKey)
	if err != nil {
		return fmt.Errorf("%s: %w", artifactPath, err)
	}

	ds, err := artifact.NewCodec().Decode(plain)
	if err != nil {
		return fmt.Errorf("%s: %w", artifactPath, err)
	}

	if inspectFlags.schema {
		return preview.Describe(out, ds)
	}
	return preview.Render(out, ds, format)
}

func parseFormat(s string, out io.Writer) (preview.Format, error) {
	switch s {
	case "auto", "":
		return preview.DetectFormat(out), nil
	case "table":
		return preview.FormatTable, nil
	case "csv":
		return preview.FormatCSV, nil
	default:
		return preview.FormatCSV, fmt.Errorf("%w: unknown --format %q (want auto, table or csv)", updater.ErrInvalidConfig, s)
	}
}
