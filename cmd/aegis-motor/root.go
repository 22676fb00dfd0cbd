package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JesusRamosMembrive/AEGIS/internal/config"
	"github.com/JesusRamosMembrive/AEGIS/internal/ipc"
	"github.com/JesusRamosMembrive/AEGIS/internal/logging"
	"github.com/JesusRamosMembrive/AEGIS/internal/metrics"
	"github.com/JesusRamosMembrive/AEGIS/internal/protocol"
	"github.com/JesusRamosMembrive/AEGIS/internal/version"
)

var (
	// socketFlag overrides the configured socket path
	socketFlag string

	// configDirFlag is the directory searched for config.json
	configDirFlag string

	// logLevelFlag and logFormatFlag override the logging section
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "aegis-motor",
	Short: "AEGIS Static Analysis Motor",
	Long: `The AEGIS static analysis motor scans source trees, normalizes them into
token streams for clone detection, and computes line and complexity metrics.
Run without a subcommand it serves the analysis protocol on a local unix
domain socket; the analyze and tokenize subcommands run one-shot analyses
and print JSON to stdout.`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.SetVersionTemplate("AEGIS Static Analysis Motor version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", ".",
		"Directory searched for config.json")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json")

	rootCmd.Flags().StringVar(&socketFlag, "socket", "",
		"Unix socket path (default "+config.DefaultSocketPath+")")
}

// loadConfig resolves the effective configuration.
// Precedence: CLI flags > config.json > built-in defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDirFlag)
	if err != nil {
		return nil, err
	}

	if socketFlag != "" {
		cfg.Socket = socketFlag
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	format := logging.HumanFormat
	if cfg.Logging.Format == string(logging.JSONFormat) {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}

// runServer starts the socket server and blocks until shutdown.
func runServer(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	analyzer := metrics.NewAnalyzer()

	logger.Info("starting AEGIS Static Analysis Motor", map[string]interface{}{
		"version": version.Version,
		"socket":  cfg.Socket,
		"tier":    analyzer.TierName(),
	})

	handler := protocol.NewHandler(analyzer, cfg.Scanner, logger)
	server := ipc.NewServer(cfg.Socket, handler.Handle, logger)

	// SIGINT/SIGTERM stop the accept loop so the socket file is removed
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		server.Stop()
	}()

	return server.Run(sigCtx)
}
