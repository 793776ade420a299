// Package engine applies workflows: it drives workspace switches, app
// launches, and the waits between them.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dagimg-dot/floww/internal/config"
	"github.com/dagimg-dot/floww/internal/launcher"
	"github.com/dagimg-dot/floww/internal/log"
	"github.com/dagimg-dot/floww/internal/workflow"
	"github.com/dagimg-dot/floww/internal/workspace"
)

// Reporter receives the step-by-step progress of an apply run. The CLI
// echoes these to the terminal; tests capture them.
type Reporter interface {
	Stepf(format string, args ...any)
	Failf(format string, args ...any)
}

// Engine orchestrates one apply run at a time. All collaborators are
// injected; sleep is swappable so tests run instantly.
type Engine struct {
	switcher workspace.Switcher
	launcher launcher.Launcher
	reporter Reporter
	sleep    func(seconds float64)
	tracer   trace.Tracer
}

// New creates an Engine with real sleeping.
func New(sw workspace.Switcher, ln launcher.Launcher, rep Reporter) *Engine {
	return &Engine{
		switcher: sw,
		launcher: ln,
		reporter: rep,
		sleep: func(seconds float64) {
			time.Sleep(time.Duration(seconds * float64(time.Second)))
		},
		tracer: otel.Tracer("floww/engine"),
	}
}

// SetSleep replaces the sleep function. Tests use this to record waits
// instead of blocking.
func (e *Engine) SetSleep(fn func(seconds float64)) {
	e.sleep = fn
}

// Apply runs every workspace step of the workflow in order, then the
// optional final-workspace switch. It returns true iff every switch and
// every launch succeeded. Per-step failures are reported and folded into
// the result; they never abort the remaining steps. The one exception is
// append mode with an unreadable workspace capacity, where no offset can
// be computed and nothing runs.
func (e *Engine) Apply(ctx context.Context, wf *workflow.Workflow, timing config.Timing, appendMode bool) bool {
	ctx, span := e.tracer.Start(ctx, "workflow.apply", trace.WithAttributes(
		attribute.String("workflow.name", wf.Name),
		attribute.Int("workflow.steps", len(wf.Steps)),
		attribute.Bool("append", appendMode),
	))
	defer span.End()

	if len(wf.Steps) == 0 {
		log.Warn(log.CatEngine, "Workflow contains no workspaces", "workflow", wf.Name)
	}
	if wf.Description != "" {
		e.reporter.Stepf("Workflow: %s", wf.Description)
	}

	offset := 0
	if appendMode {
		total, err := e.switcher.Capacity()
		if err != nil {
			e.reporter.Failf("Error: cannot determine workspace count for append mode: %v", err)
			log.ErrorErr(log.CatEngine, "Append offset unavailable", err)
			span.RecordError(err)
			return false
		}
		offset = total - 1
		log.Debug(log.CatEngine, "Append mode", "offset", offset)
	}

	ok := true
	switchesOK := true

	for i, step := range wf.Steps {
		target := step.Target + offset
		stepCtx, stepSpan := e.tracer.Start(ctx, "workflow.step", trace.WithAttributes(
			attribute.Int("step.index", i),
			attribute.Int("step.target", target),
		))

		e.reporter.Stepf("--> Switching to workspace %d...", target)
		if err := e.switcher.Switch(target); err != nil {
			e.reporter.Failf("Error: failed to switch to workspace %d: %v", target, err)
			log.ErrorErr(log.CatWorkspace, "Workspace switch failed", err, "target", target)
			stepSpan.RecordError(err)
			stepSpan.End()
			ok = false
			switchesOK = false
			continue
		}

		lastAppWait := 0.0
		for j, app := range step.Apps {
			lastInStep := j == len(step.Apps)-1
			launched := e.launchApp(stepCtx, app)
			if !launched {
				ok = false
			}

			if !launched {
				continue
			}

			wait := appWait(app, lastInStep, timing)
			globallyLast := lastInStep && i == len(wf.Steps)-1 && wf.Final == nil
			if wait > 0 && !globallyLast {
				e.reporter.Stepf("    ... Waiting %.1fs before next action...", wait)
				e.sleep(wait)
			}
			if lastInStep {
				lastAppWait = wait
			}
		}

		if i < len(wf.Steps)-1 {
			delay, reason := interStepDelay(lastAppWait, timing)
			if delay > 0 {
				e.reporter.Stepf("    ... Waiting %.1fs (due to %s) before next workspace...", delay, reason)
				e.sleep(delay)
			}
		}
		stepSpan.End()
	}

	if wf.Final != nil && switchesOK {
		if !e.switchToFinal(ctx, wf, timing, offset) {
			ok = false
		}
	}

	if ok {
		e.reporter.Stepf("✓ Workflow applied successfully")
	} else {
		e.reporter.Failf("⚠ Workflow completed with errors")
	}
	log.Info(log.CatEngine, "Workflow application finished", "workflow", wf.Name, "success", ok)
	return ok
}

func (e *Engine) launchApp(ctx context.Context, app workflow.App) bool {
	_, span := e.tracer.Start(ctx, "app.launch", trace.WithAttributes(
		attribute.String("app.name", app.DisplayName()),
		attribute.String("app.kind", string(app.Kind)),
	))
	defer span.End()

	e.reporter.Stepf("    -> Launching %s...", app.DisplayName())
	if err := e.launcher.Launch(app); err != nil {
		e.reporter.Failf("    ✗ Failed to launch %s: %v", app.DisplayName(), err)
		log.ErrorErr(log.CatLaunch, "App launch failed", err, "app", app.DisplayName())
		span.RecordError(err)
		return false
	}
	return true
}

// switchToFinal waits, then switches to the final workspace. The wait is
// recomputed from the workflow itself so it holds even when the per-step
// loop skipped its inter-step delay on the last workspace.
func (e *Engine) switchToFinal(ctx context.Context, wf *workflow.Workflow, timing config.Timing, offset int) bool {
	_, span := e.tracer.Start(ctx, "workflow.final")
	defer span.End()

	delay, reason := interStepDelay(declaredFinalWait(wf, timing), timing)
	e.reporter.Stepf("    ... Waiting %.1fs (due to %s) before final workspace...", delay, reason)
	if delay > 0 {
		e.sleep(delay)
	}

	target := *wf.Final + offset
	span.SetAttributes(attribute.Int("final.target", target))

	e.reporter.Stepf("--> Switching to final workspace %d...", target)
	if err := e.switcher.Switch(target); err != nil {
		e.reporter.Failf("Error: failed to switch to final workspace %d: %v", target, err)
		log.ErrorErr(log.CatWorkspace, "Final workspace switch failed", err, "target", target)
		span.RecordError(err)
		return false
	}
	return true
}

// appWait computes the post-launch wait for one app. A declared wait
// always wins when respected, even for the last app in a step; an
// unparseable or negative value is ignored with a warning. Without a
// declared wait, only non-last apps get the default launch wait.
func appWait(app workflow.App, lastInStep bool, timing config.Timing) float64 {
	if timing.RespectAppWait && app.Wait != nil {
		seconds, parsed := workflow.WaitSeconds(app.Wait)
		if !parsed {
			log.Warn(log.CatEngine, "Ignoring unparseable wait time",
				"app", app.DisplayName(), "wait", fmt.Sprintf("%v", app.Wait))
			return 0
		}
		if seconds < 0 {
			log.Warn(log.CatEngine, "Ignoring negative wait time",
				"app", app.DisplayName(), "wait", seconds)
			return 0
		}
		return seconds
	}
	if !lastInStep {
		return timing.AppLaunchWait
	}
	return 0
}

// interStepDelay picks the delay between workspace steps: the last app's
// wait when it set one, otherwise the configured switch wait.
func interStepDelay(lastAppWait float64, timing config.Timing) (float64, string) {
	if lastAppWait > 0 {
		return lastAppWait, "last app"
	}
	return timing.WorkspaceSwitchWait, "workspace switch"
}

// declaredFinalWait reads the declared wait of the last app of the last
// workspace step, for the pre-final-switch delay. Only an explicit,
// valid, respected wait counts; everything else is zero.
func declaredFinalWait(wf *workflow.Workflow, timing config.Timing) float64 {
	if !timing.RespectAppWait || len(wf.Steps) == 0 {
		return 0
	}
	apps := wf.Steps[len(wf.Steps)-1].Apps
	if len(apps) == 0 {
		return 0
	}
	last := apps[len(apps)-1]
	if last.Wait == nil {
		return 0
	}
	seconds, parsed := workflow.WaitSeconds(last.Wait)
	if !parsed || seconds < 0 {
		return 0
	}
	return seconds
}
