package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Global
	viper.SetDefault("file_state_dir", "~/.aeroexpress-bot")

	// Logging
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)
	viper.SetDefault("trace", false)

	// Log file
	viper.SetDefault("logs.dir_name", "logs")
	viper.SetDefault("logs.max_size_mb", 10)
	viper.SetDefault("logs.max_backups", 3)
	viper.SetDefault("logs.max_age_days", 28)

	// Telegram
	viper.SetDefault("telegram.base_url", "https://api.telegram.org")
	viper.SetDefault("telegram.poll_timeout", 30*time.Second)
	viper.SetDefault("telegram.event_timeout", 60*time.Second)
	viper.SetDefault("telegram.max_concurrency", 8)
	viper.SetDefault("telegram.max_file_bytes", int64(20*1024*1024))
	viper.SetDefault("telegram.worker_idle_timeout", 5*time.Minute)

	// Sessions
	viper.SetDefault("session.idle_ttl", 24*time.Hour)
	viper.SetDefault("session.sweep_interval", 10*time.Minute)
}
