package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dagimg-dot/floww/internal/log"
)

// DefaultConfigTemplate is the commented config file written by
// `floww init`. The values match Defaults().
const DefaultConfigTemplate = `# floww configuration

general:
  # Desktop notification when an apply run finishes.
  show_notifications: true

timing:
  # Seconds to wait after a workspace's apps before switching onward.
  workspace_switch_wait: 3
  # Seconds to wait after launching each app (unless it is the last in
  # its workspace or declares its own wait).
  app_launch_wait: 1
  # Honor per-app wait values from workflow files.
  respect_app_wait: true

# history:
#   enabled: true

# tracing:
#   enabled: false
#   exporter: file   # file, stdout, or otlp
#   endpoint: localhost:4317
#   path: ~/.config/floww/traces.jsonl
`

// Initialize creates the config directory layout: the directory itself,
// a default config.yaml (kept if one already exists in any format), and
// the workflows directory.
func Initialize(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(WorkflowsDir(dir), 0o755); err != nil {
		return fmt.Errorf("creating workflows directory: %w", err)
	}

	if path := existingConfigFile(dir); path != "" {
		log.Debug(log.CatConfig, "Config file already exists", "path", path)
		return nil
	}
	if err := writeFileAtomic(filepath.Join(dir, "config.yaml"), []byte(DefaultConfigTemplate)); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	log.Info(log.CatConfig, "Wrote default config", "path", filepath.Join(dir, "config.yaml"))
	return nil
}

// existingConfigFile returns the first config file present in dir, in
// format preference order, or "" when none exists.
func existingConfigFile(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml", "config.json", "config.toml"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// writeFileAtomic writes via a temp file and rename so a crash never
// leaves a half-written config behind.
func writeFileAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), ".floww.tmp.*")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}
