// Package editor opens files in the user's text editor.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/dagimg-dot/floww/internal/log"
)

// ErrNoEditor indicates neither $EDITOR nor any common editor is
// available.
var ErrNoEditor = errors.New("no suitable editor found, set the EDITOR environment variable")

// fallbacks are probed in order when $EDITOR is unset.
var fallbacks = []string{"vim", "vi", "nano"}

// Resolve picks the editor command: $EDITOR when set, otherwise the
// first common editor found on PATH.
func Resolve() (string, error) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, nil
	}
	for _, candidate := range fallbacks {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNoEditor
}

// Open runs the resolved editor on path, attached to the terminal, and
// waits for it to exit.
func Open(path string) error {
	editor, err := Resolve()
	if err != nil {
		return err
	}
	log.Debug(log.CatConfig, "Opening editor", "editor", editor, "path", path)

	cmd := exec.Command(editor, path) //nolint:gosec // G204: $EDITOR is the user's own choice
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", editor, err)
	}
	return nil
}
