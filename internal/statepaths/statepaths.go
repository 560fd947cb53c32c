package statepaths

import (
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/tttuuu13/aeroexpress-bot/internal/pathutil"
)

const LogFilename = "bot.log"

func LogsDir() string {
	return pathutil.ResolveStateChildDir(
		viper.GetString("file_state_dir"),
		viper.GetString("logs.dir_name"),
		"logs",
	)
}

func LogFilePath() string {
	return filepath.Join(LogsDir(), LogFilename)
}
