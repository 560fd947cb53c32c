package logsink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tttuuu13/aeroexpress-bot/internal/fsstore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Sink is the bot's log file. It rotates by size and can be read back or
// truncated while the process keeps writing to it.
type Sink struct {
	mu   sync.Mutex
	path string
	file *lumberjack.Logger
}

func Open(opts Options) (*Sink, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	if err := fsstore.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = DefaultMaxSizeMB
	}
	if opts.MaxBackups < 0 {
		opts.MaxBackups = DefaultMaxBackups
	}
	if opts.MaxAgeDays < 0 {
		opts.MaxAgeDays = DefaultMaxAgeDays
	}
	return &Sink{
		path: path,
		file: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			LocalTime:  true,
		},
	}, nil
}

func (s *Sink) Path() string { return s.path }

func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Write(p)
}

// Snapshot returns the current contents of the live log file. Rotated
// backups are not included.
func (s *Sink) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, _, err := fsstore.ReadText(s.path)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Clear truncates the live log file. The next Write reopens it.
func (s *Sink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	if err := os.Truncate(s.path, 0); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("truncate log file: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
