package configutil

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestFlagOrViperPrecedence(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("bot-token", "flag-default", "")
	cmd.Flags().Int("max-concurrency", 8, "")
	cmd.Flags().Duration("poll-timeout", 30*time.Second, "")
	cmd.Flags().Int64("max-file-bytes", 10, "")

	if got := FlagOrViperString(cmd, "bot-token", "telegram.bot_token"); got != "flag-default" {
		t.Fatalf("FlagOrViperString() = %q, want flag default", got)
	}

	viper.Set("telegram.bot_token", "from-viper")
	viper.Set("telegram.max_concurrency", 2)
	viper.Set("telegram.poll_timeout", "5s")
	viper.Set("telegram.max_file_bytes", int64(99))
	if got := FlagOrViperString(cmd, "bot-token", "telegram.bot_token"); got != "from-viper" {
		t.Fatalf("FlagOrViperString() = %q, want from-viper", got)
	}
	if got := FlagOrViperInt(cmd, "max-concurrency", "telegram.max_concurrency"); got != 2 {
		t.Fatalf("FlagOrViperInt() = %d, want 2", got)
	}
	if got := FlagOrViperDuration(cmd, "poll-timeout", "telegram.poll_timeout"); got != 5*time.Second {
		t.Fatalf("FlagOrViperDuration() = %v, want 5s", got)
	}
	if got := FlagOrViperInt64(cmd, "max-file-bytes", "telegram.max_file_bytes"); got != 99 {
		t.Fatalf("FlagOrViperInt64() = %d, want 99", got)
	}

	if err := cmd.Flags().Set("bot-token", "from-flag"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := FlagOrViperString(cmd, "bot-token", "telegram.bot_token"); got != "from-flag" {
		t.Fatalf("FlagOrViperString() = %q, want from-flag", got)
	}
}
