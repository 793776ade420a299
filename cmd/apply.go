package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dagimg-dot/floww/internal/config"
	"github.com/dagimg-dot/floww/internal/engine"
	"github.com/dagimg-dot/floww/internal/history"
	"github.com/dagimg-dot/floww/internal/launcher"
	"github.com/dagimg-dot/floww/internal/log"
	"github.com/dagimg-dot/floww/internal/notify"
	"github.com/dagimg-dot/floww/internal/tracing"
	"github.com/dagimg-dot/floww/internal/workflow"
	"github.com/dagimg-dot/floww/internal/workspace"
)

var (
	applyFile   string
	applyAppend bool
)

// errApplyIncomplete signals a run that finished with per-step failures.
// The engine already reported the details.
var errApplyIncomplete = errors.New("workflow completed with errors")

var applyCmd = &cobra.Command{
	Use:   "apply [workflow]",
	Short: "Apply a workflow: switch workspaces and launch its apps",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "",
		"apply a workflow file by path instead of by name")
	applyCmd.Flags().BoolVarP(&applyAppend, "append", "a", false,
		"shift all targets past the currently existing workspaces")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	wf, err := loadWorkflow(cmd, args)
	if err != nil || wf == nil {
		return err
	}

	provider, err := tracing.Setup(cfg.Tracing, config.TracePath(cfgDir))
	if err != nil {
		log.Warn(log.CatTrace, "Tracing disabled", "error", err)
		provider = nil
	}
	if provider != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := provider.Shutdown(ctx); err != nil {
				log.Warn(log.CatTrace, "Trace flush failed", "error", err)
			}
		}()
	}

	switcher, err := workspace.New()
	if err != nil {
		return err
	}

	eng := engine.New(switcher, launcher.New(), engine.NewConsoleReporter(cmd.OutOrStdout()))

	start := time.Now()
	ok := eng.Apply(cmd.Context(), wf, cfg.Timing, applyAppend)
	duration := time.Since(start)

	notifyResult(ok)
	recordRun(wf.Name, ok, duration)

	if !ok {
		return errApplyIncomplete
	}
	return nil
}

// loadWorkflow resolves, loads, and validates the workflow to apply.
// Returns (nil, nil) when the user quit the picker.
func loadWorkflow(cmd *cobra.Command, args []string) (*workflow.Workflow, error) {
	var (
		doc  any
		name string
		err  error
	)

	if applyFile != "" {
		base := filepath.Base(applyFile)
		name = strings.TrimSuffix(base, filepath.Ext(base))
		doc, err = workflow.LoadPath(applyFile)
	} else {
		name, err = resolveName(args, "Apply a workflow")
		if err != nil || name == "" {
			return nil, err
		}
		doc, _, err = store().Load(name)
	}
	if err != nil {
		return nil, err
	}

	if err := workflow.Validate(name, doc); err != nil {
		return nil, err
	}
	return workflow.FromDocument(name, doc), nil
}

func notifyResult(ok bool) {
	var notifier notify.Notifier = notify.Noop{}
	if cfg.General.ShowNotifications {
		notifier = notify.New()
	}
	if ok {
		notifier.Send("Workflow applied successfully")
	} else {
		notifier.Send("Workflow completed with errors")
	}
}

// recordRun appends the run to the history database. History failures
// never fail the apply itself.
func recordRun(name string, ok bool, duration time.Duration) {
	if !cfg.History.Enabled {
		return
	}
	repo, err := history.Open(config.HistoryDBPath(cfgDir))
	if err != nil {
		log.Warn(log.CatDB, "History unavailable", "error", err)
		return
	}
	defer repo.Close()

	if _, err := repo.Record(name, applyAppend, ok, duration); err != nil {
		log.Warn(log.CatDB, "Recording run failed", "error", err)
	}
}
