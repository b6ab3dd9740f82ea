package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/game"
	"github.com/iburimskiy/constellation/internal/terminal"
)

var (
	configPath string
	backend    string
	verbose    bool
	stars      int
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "constellation",
	Short: "Animated starfield background",
	Long: `constellation draws drifting stars joined by faint lines when they pass
close to each other, over a layer of slowly rising particles.

It runs in a resizable window by default, or inside the terminal with
--backend terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "constellation.yaml", "config file (missing file uses defaults)")
	rootCmd.Flags().StringVarP(&backend, "backend", "b", "", "renderer: ebiten or terminal (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().IntVar(&stars, "stars", 0, "number of stars (overrides config)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for a reproducible layout (overrides config)")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if cmd.Flags().Changed("stars") {
		cfg.Starfield.Count = stars
	}
	if cmd.Flags().Changed("seed") {
		cfg.Starfield.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logging.NewLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting", zap.String("backend", cfg.Backend), zap.String("config", configPath))

	switch cfg.Backend {
	case config.BackendTerminal:
		if cfg.Logging.File == "" {
			// stderr shares the tty with the screen
			logger.Info("logging suspended while the terminal renderer runs; set logging.file to keep it")
			logger = zap.NewNop()
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return terminal.Run(ctx, cfg, logger)
	default:
		return game.Run(cfg, logger)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
