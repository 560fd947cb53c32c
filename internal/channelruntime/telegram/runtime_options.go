package telegram

import (
	"strings"
	"time"

	botapi "github.com/tttuuu13/aeroexpress-bot/internal/telegram"
)

type RunOptions struct {
	BotToken          string
	BaseURL           string
	PollTimeout       time.Duration
	EventTimeout      time.Duration
	MaxConcurrency    int
	MaxFileBytes      int64
	WorkerIdleTimeout time.Duration
	Hooks             Hooks
}

type runtimeLoopOptions struct {
	BotToken          string
	BaseURL           string
	PollTimeout       time.Duration
	EventTimeout      time.Duration
	MaxConcurrency    int
	MaxFileBytes      int64
	WorkerIdleTimeout time.Duration
	Hooks             Hooks
}

func resolveRuntimeLoopOptionsFromRunOptions(opts RunOptions) runtimeLoopOptions {
	return normalizeRuntimeLoopOptions(runtimeLoopOptions{
		BotToken:          opts.BotToken,
		BaseURL:           opts.BaseURL,
		PollTimeout:       opts.PollTimeout,
		EventTimeout:      opts.EventTimeout,
		MaxConcurrency:    opts.MaxConcurrency,
		MaxFileBytes:      opts.MaxFileBytes,
		WorkerIdleTimeout: opts.WorkerIdleTimeout,
		Hooks:             opts.Hooks,
	})
}

func normalizeRuntimeLoopOptions(opts runtimeLoopOptions) runtimeLoopOptions {
	opts.BotToken = strings.TrimSpace(opts.BotToken)
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")

	if opts.BaseURL == "" {
		opts.BaseURL = botapi.DefaultBaseURL
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 30 * time.Second
	}
	if opts.EventTimeout <= 0 {
		opts.EventTimeout = 60 * time.Second
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 8
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = botapi.DefaultMaxFileBytes
	}
	if opts.WorkerIdleTimeout <= 0 {
		opts.WorkerIdleTimeout = 5 * time.Minute
	}
	return opts
}
