package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dagimg-dot/floww/internal/config"
	"github.com/dagimg-dot/floww/internal/workflow"
)

var (
	initExample bool
	initType    string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the floww config directory and default config",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initExample, "example", false,
		"also create an example workflow")
	initCmd.Flags().StringVarP(&initType, "type", "t", "yaml",
		"file format for the example workflow (yaml, json, toml)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgDir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized floww in %s\n", cfgDir)

	if !initExample {
		return nil
	}

	ext, err := formatExtension(initType)
	if err != nil {
		return err
	}

	s := store()
	// One example is plenty, whatever its format.
	if paths := s.FindAll("example"); len(paths) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Example workflow already exists, skipping.")
		return nil
	}

	path := filepath.Join(s.Dir(), "example"+ext)
	if err := workflow.SavePath(workflow.ExampleDocument(), path); err != nil {
		return fmt.Errorf("creating example workflow: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created example workflow: %s\n", path)
	return nil
}
