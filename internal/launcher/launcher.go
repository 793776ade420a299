// Package launcher spawns workflow applications as detached processes.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/dagimg-dot/floww/internal/log"
	"github.com/dagimg-dot/floww/internal/workflow"
)

// Launch failure taxonomy. Every failure wraps one of these sentinels so
// the engine can report the class without string matching.
var (
	// ErrCommandNotFound indicates the executable does not exist.
	ErrCommandNotFound = errors.New("command not found")

	// ErrPermissionDenied indicates the executable exists but is not
	// runnable by the current user.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLaunchFailed covers any other OS-level spawn error.
	ErrLaunchFailed = errors.New("launch failed")

	// ErrUnsupportedKind indicates an app kind outside the recognized
	// set. Validation already excludes this; kept as a guard for callers
	// that bypass it.
	ErrUnsupportedKind = errors.New("unsupported app kind")
)

// Launcher starts applications. Implementations report success as "the OS
// accepted the process start", not "the application initialized".
type Launcher interface {
	Launch(app workflow.App) error
}

// Compile-time check that ProcessLauncher implements Launcher.
var _ Launcher = (*ProcessLauncher)(nil)

// ProcessLauncher implements Launcher with os/exec. Processes are started
// in their own session with stdio discarded, so they survive floww's own
// exit and are never reaped or waited on.
type ProcessLauncher struct{}

// New creates a ProcessLauncher.
func New() *ProcessLauncher {
	return &ProcessLauncher{}
}

// Launch builds the command for the app's kind and spawns it detached.
func (l *ProcessLauncher) Launch(app workflow.App) error {
	argv, err := buildCommand(app)
	if err != nil {
		return err
	}

	log.Info(log.CatLaunch, "Launching app",
		"name", app.DisplayName(), "kind", string(app.Kind), "exec", argv[0])

	//nolint:gosec // G204: the command comes from the user's own workflow file
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return classifyStartError(app, err)
	}

	log.Info(log.CatLaunch, "Launched", "name", app.DisplayName(), "pid", cmd.Process.Pid)
	// Fire-and-forget: the exit status is never observed.
	_ = cmd.Process.Release()
	return nil
}

// buildCommand dispatches on the app kind to build the spawn argv.
func buildCommand(app workflow.App) ([]string, error) {
	args := make([]string, len(app.Args))
	for i, arg := range app.Args {
		args[i] = ExpandHome(arg)
	}

	switch app.Kind {
	case workflow.KindBinary:
		return append([]string{ExpandHome(app.Exec)}, args...), nil
	case workflow.KindFlatpak:
		return append([]string{"flatpak", "run", app.Exec}, args...), nil
	case workflow.KindSnap:
		return append([]string{app.Exec}, args...), nil
	default:
		return nil, fmt.Errorf("%w: %q for app %q", ErrUnsupportedKind, app.Kind, app.DisplayName())
	}
}

func classifyStartError(app workflow.App, err error) error {
	name := app.DisplayName()
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%w for %q: %v", ErrCommandNotFound, name, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w launching %q: %v", ErrPermissionDenied, name, err)
	default:
		return fmt.Errorf("%w for %q: %v", ErrLaunchFailed, name, err)
	}
}

// ExpandHome expands a leading "~" to the current user's home directory.
// Values without the marker are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return home + path[1:]
}
