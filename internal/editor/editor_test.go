package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("EDITOR wins", func(t *testing.T) {
		t.Setenv("EDITOR", "my-editor")
		editor, err := Resolve()
		require.NoError(t, err)
		require.Equal(t, "my-editor", editor)
	})

	t.Run("probes fallbacks without EDITOR", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		editor, err := Resolve()
		if err != nil {
			require.ErrorIs(t, err, ErrNoEditor)
			return
		}
		require.Contains(t, fallbacks, editor)
	})

	t.Run("no editor anywhere", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		t.Setenv("PATH", t.TempDir())
		_, err := Resolve()
		require.ErrorIs(t, err, ErrNoEditor)
	})
}
