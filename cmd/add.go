package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dagimg-dot/floww/internal/config"
	"github.com/dagimg-dot/floww/internal/editor"
	"github.com/dagimg-dot/floww/internal/workflow"
)

var (
	addEdit bool
	addType string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new workflow file with a basic structure",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false,
		"open the workflow in the editor after creation")
	addCmd.Flags().StringVarP(&addType, "type", "t", "yaml",
		"file format for the workflow file (yaml, json, toml)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := requireInitialized(); err != nil {
		return err
	}

	name := args[0]
	if err := validateWorkflowName(name); err != nil {
		return err
	}
	ext, err := formatExtension(addType)
	if err != nil {
		return err
	}

	s := store()
	if existing := s.FindAll(name); len(existing) > 0 {
		var exts []string
		for _, path := range existing {
			exts = append(exts, filepath.Ext(path))
		}
		return fmt.Errorf("workflow %q already exists with extension: %s", name, strings.Join(exts, ", "))
	}

	path := filepath.Join(s.Dir(), name+ext)
	if err := workflow.SavePath(workflow.ScaffoldDocument(), path); err != nil {
		return fmt.Errorf("creating workflow file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created new workflow: %s (%s)\n", name, addType)

	if addEdit {
		fmt.Fprintln(cmd.OutOrStdout(), "Opening workflow in editor...")
		return editor.Open(path)
	}
	return nil
}

func validateWorkflowName(name string) error {
	switch {
	case strings.ContainsAny(name, `/\`):
		return errors.New("workflow name cannot contain path separators")
	case strings.HasPrefix(name, "."):
		return errors.New("workflow name cannot start with a dot")
	case strings.Contains(name, "."):
		return errors.New("provide the name without a file extension")
	case name == "":
		return errors.New("workflow name cannot be empty")
	}
	return nil
}

func formatExtension(fileType string) (string, error) {
	switch fileType {
	case "yaml":
		return ".yaml", nil
	case "json":
		return ".json", nil
	case "toml":
		return ".toml", nil
	default:
		return "", fmt.Errorf("unsupported file type %q (yaml, json, toml)", fileType)
	}
}

func requireInitialized() error {
	if !config.IsInitialized(cfgDir) {
		return errors.New("floww is not initialized, run 'floww init' first")
	}
	return nil
}
