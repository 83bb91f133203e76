package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itsmostafa/specindex/internal/config"
	"github.com/itsmostafa/specindex/internal/logging"
	"github.com/itsmostafa/specindex/internal/version"
)

var cfgFile string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "specindex",
	Short: "Index technical specifications by their numbered sections",
	Long: `specindex reads the page text of a long technical specification, parses its
table of contents, finds each numbered heading in the body and writes one
record per section with its content, page range and figure/table references.
The result is validated against the table of contents.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("specindex %s\n", version.String()))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml or $HOME/.specindex/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: none, normal or debug (overrides logging.level)")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger for a command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
