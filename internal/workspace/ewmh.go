package workspace

import (
	"fmt"

	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"

	"github.com/dagimg-dot/floww/internal/log"
)

// EWMHSwitcher talks to the window manager directly over the X protocol
// using EWMH client messages. This is the preferred backend: no
// subprocess per switch, and capacity reads straight from the root
// window property.
type EWMHSwitcher struct {
	x *xgbutil.XUtil
}

var _ Switcher = (*EWMHSwitcher)(nil)

// NewEWMH connects to the X server. Fails when DISPLAY is unset or the
// server is unreachable, in which case callers fall back to wmctrl.
func NewEWMH() (*EWMHSwitcher, error) {
	x, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	return &EWMHSwitcher{x: x}, nil
}

// Backend implements Switcher.
func (s *EWMHSwitcher) Backend() string { return "ewmh" }

// Capacity reads _NET_NUMBER_OF_DESKTOPS from the root window.
func (s *EWMHSwitcher) Capacity() (int, error) {
	n, err := ewmh.NumberOfDesktopsGet(s.x)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCapacityUnknown, err)
	}
	return int(n), nil
}

// Switch sends a _NET_CURRENT_DESKTOP client message for the target.
func (s *EWMHSwitcher) Switch(target int) error {
	if err := checkTarget(s, target); err != nil {
		return err
	}
	if err := ewmh.CurrentDesktopReq(s.x, target); err != nil {
		return fmt.Errorf("%w: workspace %d: %v", ErrSwitchFailed, target, err)
	}
	log.Debug(log.CatWorkspace, "Switched workspace", "target", target, "backend", "ewmh")
	return nil
}

// Close releases the X connection.
func (s *EWMHSwitcher) Close() {
	s.x.Conn().Close()
}
