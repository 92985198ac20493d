package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "updater_app <config_path> [<queries_path>]",
	Short: "Extract query results, encrypt them, and push them to the ingestion service",
	Long: `updater_app runs every named query from the queries file against PostgreSQL,
serializes each result as an Apache Arrow artifact, encrypts it with the shared
Fernet key, uploads the batch as file1..fileN in one multipart request, and
finally asks the service to reload its resources.

The queries file holds one "<name>: <SQL>" pair per line. It defaults to
queries_path from the config, or queries.txt.

Secrets can be supplied through the environment (or a .env file):
  UPDATER_API_URL, UPDATER_API_KEY, UPDATER_ENCRYPTION_KEY,
  PGPASSWORD, DATABASE_URL

Exit Codes:
  0  - Success (upload and reload failures are logged but not fatal)
  1  - Usage, config, query file, key, database or batch capacity error
  3  - Panic or unexpected system error`,
	Args:         RequireConfigPath,
	RunE:         runUpdate,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(rootCmd.OutOrStdout())
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
