// Package workflow defines the workflow document model, its schema
// validation, and the on-disk store for workflow files.
package workflow

import (
	"strconv"
)

// Kind identifies how an application is packaged and therefore how its
// launch command is built.
type Kind string

const (
	KindBinary  Kind = "binary"
	KindFlatpak Kind = "flatpak"
	KindSnap    Kind = "snap"
)

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBinary, KindFlatpak, KindSnap:
		return true
	}
	return false
}

// App describes a single application to launch.
type App struct {
	Name string
	Exec string
	Args []string
	Kind Kind

	// Wait is the raw per-app wait value from the document. It is kept
	// untyped because the engine, not the validator, decides how to treat
	// junk values (warn and fall through to zero). Nil means absent.
	Wait any
}

// DisplayName returns the app's name, falling back to its executable.
func (a App) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Exec
}

// Step is one workspace target with the applications to launch on it.
// The order of Apps is execution order.
type Step struct {
	Target int
	Apps   []App
}

// Workflow is a parsed, validated workflow document.
type Workflow struct {
	Name        string
	Description string
	Steps       []Step

	// Final is the optional workspace to switch to after all steps.
	// Nil disables the final-redirect phase.
	Final *int
}

// WaitSeconds coerces a raw wait value to seconds. The second return is
// false when the value is not a number (or a numeric string). Negative
// values are returned as-is; the caller decides whether to reject them.
func WaitSeconds(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
