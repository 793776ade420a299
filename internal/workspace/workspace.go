// Package workspace switches virtual desktops. Two backends exist: a
// native EWMH connection and a wmctrl subprocess fallback.
package workspace

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/dagimg-dot/floww/internal/log"
)

// Switching errors.
var (
	// ErrInvalidTarget indicates a workspace index outside [0, capacity).
	ErrInvalidTarget = errors.New("invalid workspace target")

	// ErrSwitchFailed indicates the window manager rejected or failed the
	// switch request.
	ErrSwitchFailed = errors.New("workspace switch failed")

	// ErrCapacityUnknown indicates the backend could not determine the
	// number of workspaces.
	ErrCapacityUnknown = errors.New("workspace capacity unavailable")

	// ErrToolNotFound indicates the wmctrl binary is not installed.
	ErrToolNotFound = errors.New("wmctrl not found")

	// ErrNoBackend indicates neither backend is usable in this session.
	ErrNoBackend = errors.New("no workspace backend available")
)

// Switcher changes the current virtual desktop.
type Switcher interface {
	// Switch moves to the zero-based workspace index. Targets outside
	// [0, Capacity()) fail with ErrInvalidTarget.
	Switch(target int) error

	// Capacity returns the number of workspaces the window manager
	// exposes.
	Capacity() (int, error)

	// Backend names the active implementation, for logs and errors.
	Backend() string
}

// New selects a backend: the native EWMH connection when the X server is
// reachable, otherwise wmctrl when installed. Returns ErrNoBackend when
// neither works.
func New() (Switcher, error) {
	if s, err := NewEWMH(); err == nil {
		log.Debug(log.CatWorkspace, "Using EWMH backend")
		return s, nil
	} else {
		log.Debug(log.CatWorkspace, "EWMH backend unavailable", "error", err)
	}

	if _, err := exec.LookPath("wmctrl"); err == nil {
		log.Debug(log.CatWorkspace, "Using wmctrl backend")
		return NewWmctrl(), nil
	}

	return nil, fmt.Errorf("%w: EWMH connection failed and wmctrl is not installed", ErrNoBackend)
}

// checkTarget validates a target index against a backend's capacity.
func checkTarget(s Switcher, target int) error {
	capacity, err := s.Capacity()
	if err != nil {
		return err
	}
	if target < 0 || target >= capacity {
		return fmt.Errorf("%w: %d (workspaces 0-%d)", ErrInvalidTarget, target, capacity-1)
	}
	return nil
}
