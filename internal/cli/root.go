// Package cli provides the command-line interface for coursegen.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmfuertes/coursegen/internal/config"
	"github.com/jmfuertes/coursegen/internal/llm"
	"github.com/jmfuertes/coursegen/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	cfgFile string
	verbose bool

	// Global config and store handle
	cfg      config.Config
	docStore *store.Surreal

	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "coursegen",
	Short: "Generate course content trees from free-form outlines",
	Long: `Coursegen parses a free-form course outline into modules and topics,
materializes a folder tree in the document store, and fills every topic
with three LLM-generated artifacts: a lesson index, the full development,
and a voiceover script.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.LoadWithFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
		logCleanup = cleanup

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if docStore != nil {
			if err := docStore.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// getStore connects to the document store on first use. Commands that only
// read local files never open a connection.
func getStore(ctx context.Context) (*store.Surreal, error) {
	if docStore != nil {
		return docStore, nil
	}

	st, err := store.NewSurreal(ctx, store.SurrealConfig{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to document store: %w", err)
	}

	docStore = st
	return docStore, nil
}

// getLLM constructs the LLM client from the effective config.
func getLLM() (*llm.Client, error) {
	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("init LLM client: %w", err)
	}
	return client, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
