package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"paligo/taxonomy/internal/config"
	"paligo/taxonomy/internal/container"
	"paligo/taxonomy/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "taxonomy-import [csv-file]",
		Short: "Import a column-indented CSV taxonomy into Paligo",
		Long: `Reads a CSV file where the column of each row's label is its depth,
builds the taxonomy tree and creates every node through the Paligo API,
parents before children. Nodes the API refuses are reported and their
subtrees skipped; the rest of the import continues.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration using viper
			cfg, err := config.Load(configFile)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if len(args) == 1 {
				cfg.Import.CSVFile = args[0]
			}
			if dryRun {
				cfg.Import.DryRun = true
			}

			if err := logging.Setup(cfg.Log); err != nil {
				log.Fatalf("Failed to set up logging: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				log.Fatalf("Invalid configuration: %v", err)
			}
			log.Info("Configuration loaded successfully")

			ctx := context.Background()

			// Initialize container with all dependencies
			app, err := container.New(ctx, cfg)
			if err != nil {
				log.Fatalf("Failed to initialize container: %v", err)
			}
			defer app.Close()

			if err := app.Run(ctx); err != nil {
				log.Errorf("Application exited with error: %v", err)
				return err
			}

			log.Info("Application finished successfully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the parsed taxonomy as YAML without creating anything")

	return cmd
}
