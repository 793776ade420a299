package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// ConsoleReporter writes progress lines to a writer, one per report.
// Failures go to the same stream so the step order reads top to bottom.
type ConsoleReporter struct {
	w io.Writer
}

var _ Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a reporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// Stepf implements Reporter.
func (r *ConsoleReporter) Stepf(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Failf implements Reporter.
func (r *ConsoleReporter) Failf(format string, args ...any) {
	fmt.Fprintln(r.w, failStyle.Render(fmt.Sprintf(format, args...)))
}
