package config

import (
	"os"
	"path/filepath"
)

// Dir resolves the floww configuration directory. $FLOWW_CONFIG_DIR wins
// when set (tests and scripting), otherwise the XDG config home applies.
func Dir() string {
	if dir := os.Getenv("FLOWW_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "floww")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "floww")
	}
	return filepath.Join(home, ".config", "floww")
}

// WorkflowsDir returns the workflow file directory under dir.
func WorkflowsDir(dir string) string {
	return filepath.Join(dir, "workflows")
}

// HistoryDBPath returns the sqlite database path under dir.
func HistoryDBPath(dir string) string {
	return filepath.Join(dir, "history.db")
}

// TracePath returns the default trace output file under dir, used when
// tracing.path is not configured.
func TracePath(dir string) string {
	return filepath.Join(dir, "traces.jsonl")
}

// IsInitialized reports whether `floww init` has run for dir.
func IsInitialized(dir string) bool {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return false
	}
	info, err := os.Stat(WorkflowsDir(dir))
	return err == nil && info.IsDir()
}
