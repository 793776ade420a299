package cmd

import (
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/dagimg-dot/floww/internal/editor"
	"github.com/dagimg-dot/floww/internal/workflow"
)

var editCmd = &cobra.Command{
	Use:   "edit [workflow]",
	Short: "Open a workflow in your editor",
	Long: `Open a workflow file in $EDITOR. After the editor exits, floww shows
what changed and re-validates the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	name, err := resolveName(args, "Edit a workflow")
	if err != nil || name == "" {
		return err
	}

	path, err := store().Find(name)
	if err != nil {
		return err
	}

	before, err := os.ReadFile(path) //nolint:gosec // G304: path is inside the user's workflows dir
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := editor.Open(path); err != nil {
		return err
	}

	after, err := os.ReadFile(path) //nolint:gosec // G304: same path re-read after editing
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if string(before) == string(after) {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes made.")
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(before), string(after), true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	fmt.Fprintln(cmd.OutOrStdout(), dmp.DiffPrettyText(diffs))

	// A broken edit is allowed on disk, but worth flagging right away.
	doc, err := workflow.LoadPath(path)
	if err == nil {
		err = workflow.Validate(name, doc)
	}
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: %q no longer validates: %v\n", name, err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Workflow %q is valid.\n", name)
	return nil
}
