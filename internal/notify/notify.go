// Package notify sends desktop notifications via notify-send. Delivery
// is best effort: a missing tool or a failed send is logged, never an
// error for the caller.
package notify

import (
	"os/exec"

	"github.com/dagimg-dot/floww/internal/log"
)

// Notifier sends a one-line desktop notification.
type Notifier interface {
	Send(message string)
}

// DesktopNotifier shells out to notify-send.
type DesktopNotifier struct{}

var _ Notifier = DesktopNotifier{}

// New creates a DesktopNotifier.
func New() DesktopNotifier {
	return DesktopNotifier{}
}

// Send implements Notifier.
func (DesktopNotifier) Send(message string) {
	if _, err := exec.LookPath("notify-send"); err != nil {
		log.Warn(log.CatNotify, "notify-send not found, cannot notify user")
		return
	}
	if err := exec.Command("notify-send", "--app-name", "Floww", message).Run(); err != nil {
		log.Warn(log.CatNotify, "Notification failed", "error", err)
	}
}

// Noop discards notifications. Used when notifications are disabled.
type Noop struct{}

var _ Notifier = Noop{}

// Send implements Notifier.
func (Noop) Send(string) {}
