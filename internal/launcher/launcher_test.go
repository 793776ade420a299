package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dagimg-dot/floww/internal/workflow"
)

func TestBuildCommand(t *testing.T) {
	t.Run("binary includes args", func(t *testing.T) {
		argv, err := buildCommand(workflow.App{
			Name: "Browser",
			Exec: "firefox",
			Args: []string{"--new-window", "https://example.com"},
			Kind: workflow.KindBinary,
		})
		require.NoError(t, err)
		require.Equal(t, []string{"firefox", "--new-window", "https://example.com"}, argv)
	})

	t.Run("flatpak wraps with flatpak run", func(t *testing.T) {
		argv, err := buildCommand(workflow.App{
			Exec: "org.mozilla.firefox",
			Kind: workflow.KindFlatpak,
		})
		require.NoError(t, err)
		require.Equal(t, []string{"flatpak", "run", "org.mozilla.firefox"}, argv)
	})

	t.Run("snap runs the command directly", func(t *testing.T) {
		argv, err := buildCommand(workflow.App{
			Exec: "spotify",
			Args: []string{"--uri", "spotify:playlist:abc"},
			Kind: workflow.KindSnap,
		})
		require.NoError(t, err)
		require.Equal(t, []string{"spotify", "--uri", "spotify:playlist:abc"}, argv)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := buildCommand(workflow.App{Exec: "x", Kind: workflow.Kind("appimage")})
		require.ErrorIs(t, err, ErrUnsupportedKind)
	})

	t.Run("home marker expands in exec and args", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		argv, err := buildCommand(workflow.App{
			Exec: "~/bin/tool",
			Args: []string{"~/notes.txt", "plain"},
			Kind: workflow.KindBinary,
		})
		require.NoError(t, err)
		require.Equal(t, filepath.Join(home, "bin/tool"), argv[0])
		require.Equal(t, filepath.Join(home, "notes.txt"), argv[1])
		require.Equal(t, "plain", argv[2])
	})

	t.Run("flatpak app id is not expanded", func(t *testing.T) {
		argv, err := buildCommand(workflow.App{Exec: "~weird.id", Kind: workflow.KindFlatpak})
		require.NoError(t, err)
		require.Equal(t, "~weird.id", argv[2])
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, home, ExpandHome("~"))
	require.Equal(t, filepath.Join(home, "docs"), ExpandHome("~/docs"))
	require.Equal(t, "/usr/bin/vim", ExpandHome("/usr/bin/vim"))
	require.Equal(t, "a~b", ExpandHome("a~b"))
	require.Equal(t, "~user/docs", ExpandHome("~user/docs"))
}

func TestLaunch(t *testing.T) {
	t.Run("missing command", func(t *testing.T) {
		err := New().Launch(workflow.App{
			Name: "Ghost",
			Exec: "floww-test-no-such-command",
			Kind: workflow.KindBinary,
		})
		require.ErrorIs(t, err, ErrCommandNotFound)
	})

	t.Run("non-executable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "locked")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))

		err := New().Launch(workflow.App{Name: "Locked", Exec: path, Kind: workflow.KindBinary})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("spawns detached", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ok.sh")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))

		err := New().Launch(workflow.App{Name: "OK", Exec: path, Kind: workflow.KindBinary})
		require.NoError(t, err)
	})

	t.Run("unsupported kind surfaces before spawning", func(t *testing.T) {
		err := New().Launch(workflow.App{Exec: "x", Kind: workflow.Kind("")})
		var notFound *os.PathError
		require.False(t, errors.As(err, &notFound))
		require.ErrorIs(t, err, ErrUnsupportedKind)
	})
}
