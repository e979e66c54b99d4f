package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/EgorLis/alyabot/internal/bot"
	"github.com/EgorLis/alyabot/internal/gateway"
	"github.com/EgorLis/alyabot/internal/registry"
)

var (
	cfg     = bot.DefaultConfig()
	envFile string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "alya",
	Short: "ALYA — Discord auto-react bot",
	Long: `ALYA watches chosen users and reacts to each of their messages with a set emoji.

Owner-only commands (prefix or slash): ar, unar, arlist.
Public commands: ping, uptime.

The bot token is read from the TOKEN environment variable (a .env file is loaded first).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfg.OwnerID, "owner-id", cfg.OwnerID, "user id allowed to change auto-reacts")
	f.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "prefix for text commands")
	f.StringVar(&cfg.StateFile, "state-file", cfg.StateFile, "JSON file with auto-react state")
	f.StringVar(&cfg.Status, "status", cfg.Status, `activity shown as "Watching <status>"`)
	f.DurationVar(&cfg.StatusEvery, "status-every", cfg.StatusEvery, "presence refresh interval")
	f.StringVar(&cfg.Name, "name", cfg.Name, "bot name used in replies")
	f.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading TOKEN")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func run(cmd *cobra.Command, args []string) error {
	logger.Info("Starting ALYA...")

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("load env file", zap.String("path", envFile), zap.Error(err))
		}
	}
	cfg.Token = os.Getenv("TOKEN")
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := registry.EnsureFile(cfg.StateFile); err != nil {
		logger.Warn("create state file", zap.String("path", cfg.StateFile), zap.Error(err))
	}
	reg := registry.Load(cfg.StateFile, logger.Named("registry"))

	gw, err := gateway.New(cfg.Token, logger.Named("gateway"))
	if err != nil {
		return err
	}

	b := bot.New(cfg, reg, logger.Named("bot"))
	b.SetGateway(gw)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		return err
	}
	defer b.Stop()

	logger.Info("running… press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("fatal", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
