package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/bot"
	"github.com/abhisek/lingua/internal/reminder"
	"github.com/abhisek/lingua/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API with reminders and the optional Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		logger := newLogger()
		addr := d.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		var notifier reminder.Notifier
		if d.cfg.Telegram.Token != "" {
			b, api, err := startBot(ctx, d, logger)
			if err != nil {
				return err
			}
			notifier = b
			go func() {
				if err := b.Run(ctx, api); err != nil && !errors.Is(err, context.Canceled) {
					logger.Printf("bot stopped: %v", err)
				}
			}()
		}

		if d.cfg.Reminder.Enabled {
			sched := reminder.New(reminder.Options{
				Vocab:         d.learner.Vocab,
				Notifier:      notifier,
				Source:        d.backup,
				Snapshots:     d.store.SnapshotRepo(),
				Sequence:      d.store,
				SnapshotEvery: d.cfg.Reminder.SnapshotEvery,
				SnapshotKeep:  d.cfg.Reminder.SnapshotKeep,
				Logger:        logger,
			})
			if err := sched.Start(); err != nil {
				return fmt.Errorf("start reminders: %w", err)
			}
			defer sched.Stop()
		}

		srv := server.New(server.Options{
			Tutor:        d.tutor,
			Learner:      d.learner,
			Backup:       d.backup,
			Logger:       logger,
			AllowOrigins: d.cfg.Server.AllowOrigins,
			Version:      version,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Listen(addr) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// startBot connects to Telegram and loads the bot's chats.
func startBot(ctx context.Context, d *deps, logger *log.Logger) (*bot.Bot, bot.UpdateSource, error) {
	api, err := bot.Connect(d.cfg.Telegram.Token)
	if err != nil {
		return nil, nil, err
	}
	b, err := bot.New(ctx, api, bot.Options{
		Learner: d.learner,
		Repo:    d.store.StateRepo(),
		Logger:  logger,
		Timeout: d.cfg.Telegram.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("telegram bot authorized as @%s", api.Self.UserName)
	return b, api, nil
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run only the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.cfg.Telegram.Token == "" {
			return errors.New("telegram token is not set (LINGUA_TELEGRAM_TOKEN)")
		}
		logger := newLogger()
		b, api, err := startBot(ctx, d, logger)
		if err != nil {
			return err
		}

		if d.cfg.Reminder.Enabled {
			sched := reminder.New(reminder.Options{
				Vocab:    d.learner.Vocab,
				Notifier: b,
				Logger:   logger,
			})
			if err := sched.Start(); err != nil {
				return fmt.Errorf("start reminders: %w", err)
			}
			defer sched.Stop()
		}

		if err := b.Run(ctx, api); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LINGUA_ADDR)")
}
