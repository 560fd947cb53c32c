package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	runtimetelegram "github.com/tttuuu13/aeroexpress-bot/internal/channelruntime/telegram"
	"github.com/tttuuu13/aeroexpress-bot/internal/configutil"
	"github.com/tttuuu13/aeroexpress-bot/internal/logsink"
	"github.com/tttuuu13/aeroexpress-bot/internal/logutil"
	"github.com/tttuuu13/aeroexpress-bot/internal/session"
	"github.com/tttuuu13/aeroexpress-bot/internal/statepaths"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot (long polling)",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logFile, err := logsink.Open(logsink.Options{
				Path:       statepaths.LogFilePath(),
				MaxSizeMB:  viper.GetInt("logs.max_size_mb"),
				MaxBackups: viper.GetInt("logs.max_backups"),
				MaxAgeDays: viper.GetInt("logs.max_age_days"),
			})
			if err != nil {
				return err
			}
			defer logFile.Close()

			logger, err := logutil.LoggerFromViper(logFile)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			store := session.NewCacheStore(session.CacheStoreOptions{
				IdleTTL:       configutil.FlagOrViperDuration(cmd, "session-idle-ttl", "session.idle_ttl"),
				SweepInterval: viper.GetDuration("session.sweep_interval"),
				Logger:        logger,
			})
			logger.Info("serve_start",
				"log_file", logFile.Path(),
				"session_idle_ttl", configutil.FlagOrViperDuration(cmd, "session-idle-ttl", "session.idle_ttl").String(),
			)

			return runtimetelegram.Run(runCtx, runtimetelegram.Dependencies{
				Logger:   func() (*slog.Logger, error) { return logger, nil },
				Sessions: session.NewManager(store),
				Logs:     logFile,
			}, runtimetelegram.RunOptions{
				BotToken:          configutil.FlagOrViperString(cmd, "telegram-bot-token", "telegram.bot_token"),
				BaseURL:           configutil.FlagOrViperString(cmd, "telegram-base-url", "telegram.base_url"),
				PollTimeout:       configutil.FlagOrViperDuration(cmd, "telegram-poll-timeout", "telegram.poll_timeout"),
				EventTimeout:      configutil.FlagOrViperDuration(cmd, "telegram-event-timeout", "telegram.event_timeout"),
				MaxConcurrency:    configutil.FlagOrViperInt(cmd, "telegram-max-concurrency", "telegram.max_concurrency"),
				MaxFileBytes:      configutil.FlagOrViperInt64(cmd, "telegram-max-file-bytes", "telegram.max_file_bytes"),
				WorkerIdleTimeout: viper.GetDuration("telegram.worker_idle_timeout"),
			})
		},
	}

	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().String("telegram-base-url", "https://api.telegram.org", "Telegram API base URL.")
	cmd.Flags().Duration("telegram-poll-timeout", 30*time.Second, "Long polling timeout for getUpdates.")
	cmd.Flags().Duration("telegram-event-timeout", 60*time.Second, "Timeout for the Telegram calls made while handling one update.")
	cmd.Flags().Int("telegram-max-concurrency", 8, "Max number of chats processed concurrently.")
	cmd.Flags().Int64("telegram-max-file-bytes", 20*1024*1024, "Max size of an uploaded schedule file.")
	cmd.Flags().Duration("session-idle-ttl", 24*time.Hour, "Drop a user's session after this long without activity (negative keeps sessions forever).")

	return cmd
}
