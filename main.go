package main

import (
	"os"
	"time"

	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/config"
	"f1seasonbot/pkg/engine"
	"f1seasonbot/pkg/openf1"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:          "f1seasonbot",
		Short:        "F1 season calendar, standings and results over Telegram, HTTP and the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config", "./config", "directory holding config.yaml")

	root.AddCommand(newServeCmd(&configDir), newQueryCmd(&configDir))
	return root
}

// runtime is what every subcommand builds from the configuration.
type runtime struct {
	cfg    *config.Config
	logger *logrus.Logger
	engine *engine.Engine
}

func setup(configDir string) (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log.Level)
	client := openf1.NewClient(cfg.OpenF1.BaseURL, cfg.OpenF1.Timeout, logger)
	store := cache.NewStore(cfg.Cache.Size, cfg.Cache.ShortTTL, cfg.Cache.LongTTL, logger)

	return &runtime{
		cfg:    cfg,
		logger: logger,
		engine: engine.New(client, store, logger, time.Now),
	}, nil
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
