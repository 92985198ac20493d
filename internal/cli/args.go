package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireConfigPath validates a <config_path> argument followed by an
// optional <queries_path>.
func RequireConfigPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <config_path>

Usage: %s

Example:
  %s config.json queries.txt`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 2 {
		return fmt.Errorf("accepts at most 2 arg(s), received %d", len(args))
	}
	return nil
}

// RequireInspectArgs validates exactly <config_path> and <artifact_file>.
func RequireInspectArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf(`expected <config_path> and <artifact_file>, received %d arg(s)

Usage: %s

Example:
  %s config.json out/file1_schools.enc`, len(args), cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
