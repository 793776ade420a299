// Package cmd implements the floww command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagimg-dot/floww/internal/config"
	"github.com/dagimg-dot/floww/internal/log"
	"github.com/dagimg-dot/floww/internal/ui/picker"
	"github.com/dagimg-dot/floww/internal/workflow"
)

var (
	cfgDir   string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "floww",
	Short: "Apply declarative workspace workflows",
	Long: `floww switches virtual desktops and launches applications from
declarative workflow files (YAML, JSON, or TOML).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetMinLevel(log.ParseLevel(logLevel))
		if cfgDir == "" {
			cfgDir = config.Dir()
		}
		cfg = config.Load(cfgDir)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgDir, "config", "c", "",
		"config directory (default: ~/.config/floww)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// store returns the workflow store for the active config directory.
func store() *workflow.Store {
	return workflow.NewStore(config.WorkflowsDir(cfgDir))
}

// resolveName picks the workflow name from args, falling back to the
// interactive picker. Returns "" when the user quit the picker without
// choosing.
func resolveName(args []string, title string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return picker.Pick(store(), title)
}
