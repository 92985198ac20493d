package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/updater/internal/artifact"
	"github.com/vvka-141/updater/internal/config"
	"github.com/vvka-141/updater/internal/db"
	"github.com/vvka-141/updater/internal/logging"
	"github.com/vvka-141/updater/internal/services"
	"github.com/vvka-141/updater/internal/upload"
	"github.com/vvka-141/updater/pkg/updater"
)

type runFlagValues struct {
	dryRun       bool
	outputDir    string
	maxArtifacts int
}

var runFlags runFlagValues

func init() {
	rootCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false,
		"Extract, serialize and encrypt, but make no HTTP requests")
	rootCmd.Flags().StringVar(&runFlags.outputDir, "output-dir", "",
		"With --dry-run, write the encrypted artifacts to this directory\n"+
			"as <field>_<name>.enc (readable with 'updater_app inspect')")
	rootCmd.Flags().IntVar(&runFlags.maxArtifacts, "max-artifacts", 0,
		"Maximum artifacts per upload batch\n"+
			"Precedence: --max-artifacts > max_artifacts in config > 2")
}

func resetRunFlags() {
	runFlags = runFlagValues{}
}

// loadRunConfig loads godotenv and the config file, then applies
// positional and flag overrides.
func loadRunConfig(cmd *cobra.Command, args []string) (*updater.RunConfig, error) {
	_ = godotenv.Load()

	file, err := config.Load(args[0])
	if err != nil {
		return nil, err
	}
	file.ApplyEnv(os.LookupEnv)

	cfg, err := file.ToRunConfig()
	if err != nil {
		return nil, err
	}

	if len(args) > 1 {
		cfg.QueriesPath = args[1]
	}
	if cmd.Flags().Changed("max-artifacts") {
		cfg.MaxArtifacts = runFlags.maxArtifacts
	}
	cfg.DryRun = runFlags.dryRun
	cfg.OutputDir = runFlags.outputDir

	return cfg, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), verbose)

	cfg, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}

	svc := services.NewUpdateService(
		db.NewSessionOpener(logger),
		artifact.NewCodec(),
		upload.NewUploaderFactory(nil),
		logger,
	)

	report, err := svc.Run(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	logger.Verbose("Run %s finished: queries %v, slots %v", report.RunID, report.Queries, report.Artifacts)
	return nil
}
