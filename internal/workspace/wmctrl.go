package workspace

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dagimg-dot/floww/internal/log"
)

// capacityCacheKey and capacityTTL bound how often `wmctrl -d` runs.
// An apply touches capacity once per switch plus once for append-mode
// offsetting; the workspace count does not change mid-run.
const (
	capacityCacheKey = "capacity"
	capacityTTL      = 2 * time.Second
)

// CommandRunner executes an external command and returns its combined
// output. It exists so tests can fake wmctrl.
type CommandRunner interface {
	Run(name string, args ...string) (string, error)
}

// execRunner is the real CommandRunner backed by os/exec.
type execRunner struct{}

func (execRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}

// WmctrlSwitcher shells out to wmctrl. Used when the EWMH connection
// cannot be established (e.g. no usable DISPLAY for a direct socket,
// but wmctrl still works through XWayland).
type WmctrlSwitcher struct {
	runner CommandRunner
	cache  *gocache.Cache
}

var _ Switcher = (*WmctrlSwitcher)(nil)

// NewWmctrl creates a wmctrl-backed switcher.
func NewWmctrl() *WmctrlSwitcher {
	return NewWmctrlWithRunner(execRunner{})
}

// NewWmctrlWithRunner creates a wmctrl-backed switcher with a custom
// runner, for tests.
func NewWmctrlWithRunner(runner CommandRunner) *WmctrlSwitcher {
	return &WmctrlSwitcher{
		runner: runner,
		cache:  gocache.New(capacityTTL, time.Minute),
	}
}

// Backend implements Switcher.
func (s *WmctrlSwitcher) Backend() string { return "wmctrl" }

// Capacity counts the desktops listed by `wmctrl -d`. The result is
// cached briefly so one apply does not re-list per workspace.
func (s *WmctrlSwitcher) Capacity() (int, error) {
	if cached, ok := s.cache.Get(capacityCacheKey); ok {
		return cached.(int), nil
	}

	out, err := s.runner.Run("wmctrl", "-d")
	if err != nil {
		return 0, classifyWmctrlError(err, fmt.Errorf("%w: wmctrl -d: %v", ErrCapacityUnknown, err))
	}

	count := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: wmctrl -d reported no desktops", ErrCapacityUnknown)
	}

	s.cache.Set(capacityCacheKey, count, gocache.DefaultExpiration)
	return count, nil
}

// Switch runs `wmctrl -s <target>` after a range check.
func (s *WmctrlSwitcher) Switch(target int) error {
	if err := checkTarget(s, target); err != nil {
		return err
	}

	out, err := s.runner.Run("wmctrl", "-s", fmt.Sprintf("%d", target))
	if err != nil {
		detail := strings.TrimSpace(out)
		if detail == "" {
			detail = err.Error()
		}
		return classifyWmctrlError(err, fmt.Errorf("%w: workspace %d: %s", ErrSwitchFailed, target, detail))
	}

	log.Debug(log.CatWorkspace, "Switched workspace", "target", target, "backend", "wmctrl")
	return nil
}

// classifyWmctrlError prefers ErrToolNotFound for a missing binary,
// falling back to the provided wrapped error otherwise.
func classifyWmctrlError(err, wrapped error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: install it or use a desktop with EWMH support", ErrToolNotFound)
	}
	return wrapped
}
