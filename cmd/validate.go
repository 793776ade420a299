package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dagimg-dot/floww/internal/workflow"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate [workflow]",
	Short: "Check that a workflow file is well-formed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			doc  any
			name string
			err  error
		)

		if validateFile != "" {
			base := filepath.Base(validateFile)
			name = strings.TrimSuffix(base, filepath.Ext(base))
			doc, err = workflow.LoadPath(validateFile)
		} else {
			name, err = resolveName(args, "Validate a workflow")
			if err != nil || name == "" {
				return err
			}
			doc, _, err = store().Load(name)
		}
		if err != nil {
			return err
		}

		if err := workflow.Validate(name, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Workflow %q is valid.\n", name)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "",
		"validate a workflow file by path instead of by name")
	rootCmd.AddCommand(validateCmd)
}
