package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"f1seasonbot/pkg/apps/mainapp"
	"f1seasonbot/pkg/bot"
	"f1seasonbot/pkg/notification"
	"f1seasonbot/pkg/settings"
	"f1seasonbot/pkg/webserver"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(configDir *string) *cobra.Command {
	var noBot, noAPI bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if noBot && noAPI {
				return errors.New("nothing to serve: both --no-bot and --no-api are set")
			}
			rt, err := setup(*configDir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			if !noBot {
				if err := startBot(ctx, g, rt); err != nil {
					return err
				}
			}
			if !noAPI {
				ws := webserver.NewManager(rt.engine, rt.cfg.Webserver.Address, rt.cfg.Bot.CommandTimeout, rt.logger)
				ws.Debug()
				g.Go(func() error {
					return ws.Serve(ctx)
				})
			}

			if interval := rt.cfg.Cache.PurgeInterval; interval > 0 {
				g.Go(func() error {
					rt.engine.PurgeEvery(ctx, interval)
					return nil
				})
			}

			rt.logger.Info("Start listening. Press Ctrl-C to stop it")
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&noBot, "no-bot", false, "do not start the Telegram bot")
	cmd.Flags().BoolVar(&noAPI, "no-api", false, "do not start the HTTP API")
	return cmd
}

func startBot(ctx context.Context, g *errgroup.Group, rt *runtime) error {
	if rt.cfg.Telegram.Token == "" {
		return errors.New("TELEGRAM_TOKEN is required to run the bot")
	}
	botAPI, err := tgbotapi.NewBotAPI(rt.cfg.Telegram.Token)
	if err != nil {
		return err
	}
	// Set this to true to log all interactions with telegram servers
	botAPI.Debug = rt.cfg.Telegram.Debug

	sm, err := settings.NewManager(rt.cfg.Settings.DSN, rt.logger)
	if err != nil {
		return err
	}

	sender := notification.NewManager(botAPI, notification.Options{
		MaxAttempts:     rt.cfg.Notification.MaxAttempts,
		InitialInterval: rt.cfg.Notification.InitialInterval,
		MaxElapsed:      rt.cfg.Notification.MaxElapsed,
	}, rt.logger)
	app := mainapp.NewMainApp(rt.engine, sm, sender, rt.logger)
	b := bot.New(app, sender, rt.cfg.Bot.CommandTimeout, rt.logger)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	g.Go(func() error {
		defer sm.Close()
		b.Run(ctx, updates)
		botAPI.StopReceivingUpdates()
		return nil
	})
	rt.logger.WithField("bot", botAPI.Self.UserName).Info("bot authorized")
	return nil
}
