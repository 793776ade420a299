package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeWorkflow(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlWorkflow = `
description: dev setup
workspaces:
  - target: 1
    apps:
      - name: Terminal
        exec: gnome-terminal
        wait: 2
`

func TestStoreList(t *testing.T) {
	t.Run("missing directory lists nothing", func(t *testing.T) {
		names, err := NewStore(filepath.Join(t.TempDir(), "absent")).List()
		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("dedupes stems across extensions and sorts", func(t *testing.T) {
		dir := t.TempDir()
		writeWorkflow(t, dir, "zeta.yaml", yamlWorkflow)
		writeWorkflow(t, dir, "zeta.json", "{}")
		writeWorkflow(t, dir, "alpha.toml", "")
		writeWorkflow(t, dir, "notes.txt", "ignored")

		names, err := NewStore(dir).List()
		require.NoError(t, err)
		require.Equal(t, []string{"alpha", "zeta"}, names)
	})
}

func TestStoreFind(t *testing.T) {
	t.Run("probes extensions in order", func(t *testing.T) {
		dir := t.TempDir()
		writeWorkflow(t, dir, "dev.json", "{}")
		writeWorkflow(t, dir, "dev.yaml", yamlWorkflow)

		path, err := NewStore(dir).Find("dev")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "dev.yaml"), path)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := NewStore(t.TempDir()).Find("ghost")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "dev.yaml", yamlWorkflow)

	doc, path, err := NewStore(dir).Load("dev")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "dev.yaml"), path)
	require.NoError(t, Validate("dev", doc))

	wf := FromDocument("dev", doc)
	require.Equal(t, "dev setup", wf.Description)
	require.Equal(t, 1, wf.Steps[0].Target)
	require.Equal(t, 2, wf.Steps[0].Apps[0].Wait)
}

func TestStoreRemove(t *testing.T) {
	t.Run("removes every format variant", func(t *testing.T) {
		dir := t.TempDir()
		writeWorkflow(t, dir, "dev.yaml", yamlWorkflow)
		writeWorkflow(t, dir, "dev.json", "{}")

		store := NewStore(dir)
		require.NoError(t, store.Remove("dev"))
		require.Empty(t, store.FindAll("dev"))
	})

	t.Run("unknown name", func(t *testing.T) {
		require.ErrorIs(t, NewStore(t.TempDir()).Remove("ghost"), ErrNotFound)
	})
}

func TestLoadPath(t *testing.T) {
	t.Run("json documents decode numbers as floats", func(t *testing.T) {
		dir := t.TempDir()
		path := writeWorkflow(t, dir, "dev.json",
			`{"workspaces":[{"target":2,"apps":[{"name":"A","exec":"a"}]}]}`)

		doc, err := LoadPath(path)
		require.NoError(t, err)
		require.NoError(t, Validate("dev", doc))
		require.Equal(t, 2, FromDocument("dev", doc).Steps[0].Target)
	})

	t.Run("toml documents", func(t *testing.T) {
		dir := t.TempDir()
		path := writeWorkflow(t, dir, "dev.toml", `
description = "toml flow"

[[workspaces]]
target = 1

[[workspaces.apps]]
name = "A"
exec = "a"
`)
		doc, err := LoadPath(path)
		require.NoError(t, err)
		require.NoError(t, Validate("dev", doc))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadPath("dev.ini")
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("unparseable file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeWorkflow(t, dir, "broken.yaml", "workspaces: [unclosed")
		_, err := LoadPath(path)
		require.Error(t, err)
	})
}

func TestSavePath(t *testing.T) {
	t.Run("round-trips each format", func(t *testing.T) {
		for _, ext := range []string{".yaml", ".json", ".toml"} {
			t.Run(ext, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "flow"+ext)
				require.NoError(t, SavePath(ExampleDocument(), path))

				doc, err := LoadPath(path)
				require.NoError(t, err)
				require.NoError(t, Validate("flow", doc))

				wf := FromDocument("flow", doc)
				require.Len(t, wf.Steps, 2)
				require.Equal(t, "Browser", wf.Steps[1].Apps[0].Name)
			})
		}
	})

	t.Run("scaffold validates", func(t *testing.T) {
		doc := ScaffoldDocument()
		require.NoError(t, Validate("new", doc))
	})
}
