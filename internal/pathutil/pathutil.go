package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultStateDir = "~/.aeroexpress-bot"

// ExpandHomePath replaces a leading "~" with the user's home directory.
func ExpandHomePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

func resolveStateDir(stateDir string) string {
	stateDir = strings.TrimSpace(stateDir)
	if stateDir == "" {
		stateDir = defaultStateDir
	}
	return filepath.Clean(ExpandHomePath(stateDir))
}

// ResolveStateChildDir returns dirName (or fallback) under the state dir. An
// absolute dirName is used as is.
func ResolveStateChildDir(stateDir, dirName, fallback string) string {
	dirName = strings.TrimSpace(dirName)
	if dirName == "" {
		dirName = fallback
	}
	dirName = ExpandHomePath(dirName)
	if filepath.IsAbs(dirName) {
		return filepath.Clean(dirName)
	}
	return filepath.Join(resolveStateDir(stateDir), dirName)
}
