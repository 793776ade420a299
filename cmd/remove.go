package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:     "remove [workflow]",
	Aliases: []string{"rm"},
	Short:   "Delete a workflow",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false,
		"delete without confirmation")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name, err := resolveName(args, "Remove a workflow")
	if err != nil || name == "" {
		return err
	}

	s := store()
	if _, err := s.Find(name); err != nil {
		return err
	}

	if !removeForce {
		fmt.Fprintf(cmd.OutOrStdout(), "Remove workflow %q? [y/N] ", name)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	if err := s.Remove(name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed workflow %q.\n", name)
	return nil
}
