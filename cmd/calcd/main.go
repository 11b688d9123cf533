// Command calcd serves the calculator HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/zephyrtronium/calcexpr/internal/config"
	"github.com/zephyrtronium/calcexpr/internal/history"
	"github.com/zephyrtronium/calcexpr/internal/logging"
	"github.com/zephyrtronium/calcexpr/internal/server"
)

func main() {
	cfgPath := flag.String("config", "calcd.toml", "configuration file; missing is fine unless given explicitly")
	flag.Parse()
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err := config.Load(*cfgPath, explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	lcfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		lcfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		lcfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(lcfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	store, err := history.Open(cfg.History.Path,
		history.WithLimit(cfg.History.Limit),
		history.WithLogger(logger.Named("history")),
	)
	if err != nil {
		logger.Fatal("couldn't open history", zap.Error(err))
	}

	logger.Info("starting calcd",
		zap.String("addr", cfg.Server.Addr()),
		zap.Stringer("angle", cfg.Calc.Angle),
		zap.String("history", cfg.History.Path),
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.New(cfg, store, logger).Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("stopped")
}
