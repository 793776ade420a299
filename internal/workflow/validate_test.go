package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validDoc() map[string]any {
	return map[string]any{
		"description": "dev setup",
		"workspaces": []any{
			map[string]any{
				"target": 1,
				"apps": []any{
					map[string]any{"name": "Terminal", "exec": "gnome-terminal"},
				},
			},
		},
		"final_workspace": 0,
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a valid document", func(t *testing.T) {
		require.NoError(t, Validate("dev", validDoc()))
	})

	t.Run("normalizes missing type to binary in place", func(t *testing.T) {
		doc := validDoc()
		require.NoError(t, Validate("dev", doc))

		appDoc := doc["workspaces"].([]any)[0].(map[string]any)["apps"].([]any)[0].(map[string]any)
		require.Equal(t, "binary", appDoc["type"])
	})

	t.Run("accepts JSON-style float targets", func(t *testing.T) {
		doc := map[string]any{
			"workspaces": []any{
				map[string]any{
					"target": float64(2),
					"apps":   []any{map[string]any{"name": "A", "exec": "a"}},
				},
			},
			"final_workspace": float64(1),
		}
		require.NoError(t, Validate("json", doc))
	})

	schemaFailure := func(t *testing.T, doc any, wantPath string) {
		t.Helper()
		err := Validate("bad", doc)
		require.Error(t, err)
		var schema *SchemaError
		require.ErrorAs(t, err, &schema)
		require.Equal(t, wantPath, schema.Path)
	}

	t.Run("rejects nil document", func(t *testing.T) {
		schemaFailure(t, nil, "")
	})

	t.Run("rejects non-mapping root", func(t *testing.T) {
		schemaFailure(t, []any{"not", "a", "mapping"}, "")
	})

	t.Run("requires workspaces", func(t *testing.T) {
		schemaFailure(t, map[string]any{"description": "x"}, "workspaces")
	})

	t.Run("workspaces must be a sequence", func(t *testing.T) {
		schemaFailure(t, map[string]any{"workspaces": "nope"}, "workspaces")
	})

	t.Run("rejects negative final_workspace", func(t *testing.T) {
		doc := validDoc()
		doc["final_workspace"] = -1
		schemaFailure(t, doc, "final_workspace")
	})

	t.Run("rejects fractional target", func(t *testing.T) {
		doc := validDoc()
		doc["workspaces"].([]any)[0].(map[string]any)["target"] = 1.5
		schemaFailure(t, doc, "workspaces[0].target")
	})

	t.Run("requires target", func(t *testing.T) {
		doc := map[string]any{"workspaces": []any{map[string]any{"apps": []any{}}}}
		schemaFailure(t, doc, "workspaces[0].target")
	})

	t.Run("requires apps", func(t *testing.T) {
		doc := map[string]any{"workspaces": []any{map[string]any{"target": 0}}}
		schemaFailure(t, doc, "workspaces[0].apps")
	})

	t.Run("requires app name", func(t *testing.T) {
		doc := map[string]any{
			"workspaces": []any{
				map[string]any{"target": 0, "apps": []any{map[string]any{"exec": "a"}}},
			},
		}
		schemaFailure(t, doc, "workspaces[0].apps[0].name")
	})

	t.Run("rejects empty exec", func(t *testing.T) {
		doc := map[string]any{
			"workspaces": []any{
				map[string]any{"target": 0, "apps": []any{map[string]any{"name": "A", "exec": "  "}}},
			},
		}
		schemaFailure(t, doc, "workspaces[0].apps[0].exec")
	})

	t.Run("rejects unknown app type", func(t *testing.T) {
		doc := map[string]any{
			"workspaces": []any{
				map[string]any{"target": 0, "apps": []any{
					map[string]any{"name": "A", "exec": "a", "type": "appimage"},
				}},
			},
		}
		schemaFailure(t, doc, "workspaces[0].apps[0].type")
	})

	t.Run("rejects non-sequence args", func(t *testing.T) {
		doc := map[string]any{
			"workspaces": []any{
				map[string]any{"target": 0, "apps": []any{
					map[string]any{"name": "A", "exec": "a", "args": "--flag"},
				}},
			},
		}
		schemaFailure(t, doc, "workspaces[0].apps[0].args")
	})

	t.Run("rejects non-string description", func(t *testing.T) {
		doc := validDoc()
		doc["description"] = 42
		schemaFailure(t, doc, "description")
	})

	t.Run("error message names workflow and path", func(t *testing.T) {
		err := Validate("morning", map[string]any{})
		require.Contains(t, err.Error(), `workflow "morning"`)
		require.Contains(t, err.Error(), "workspaces")
	})
}

func TestFromDocument(t *testing.T) {
	t.Run("decodes a full document", func(t *testing.T) {
		doc := map[string]any{
			"description": "everything",
			"workspaces": []any{
				map[string]any{
					"target": 1,
					"apps": []any{
						map[string]any{
							"name": "Browser",
							"exec": "firefox",
							"args": []any{"--new-window", 8080},
							"wait": 2.5,
						},
					},
				},
			},
			"final_workspace": 0,
		}
		require.NoError(t, Validate("everything", doc))

		wf := FromDocument("everything", doc)
		require.Equal(t, "everything", wf.Name)
		require.Equal(t, "everything", wf.Description)
		require.Len(t, wf.Steps, 1)
		require.Equal(t, 1, wf.Steps[0].Target)

		browser := wf.Steps[0].Apps[0]
		require.Equal(t, "Browser", browser.Name)
		require.Equal(t, KindBinary, browser.Kind)
		// Scalar args are coerced to strings.
		require.Equal(t, []string{"--new-window", "8080"}, browser.Args)
		require.Equal(t, 2.5, browser.Wait)

		require.NotNil(t, wf.Final)
		require.Equal(t, 0, *wf.Final)
	})

	t.Run("absent optional fields stay zero", func(t *testing.T) {
		doc := validDoc()
		delete(doc, "final_workspace")
		delete(doc, "description")
		require.NoError(t, Validate("bare", doc))

		wf := FromDocument("bare", doc)
		require.Nil(t, wf.Final)
		require.Empty(t, wf.Description)
		require.Nil(t, wf.Steps[0].Apps[0].Wait)
	})
}

func TestWaitSeconds(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"int", 3, 3, true},
		{"int64", int64(4), 4, true},
		{"float", 2.5, 2.5, true},
		{"numeric string", "1.5", 1.5, true},
		{"negative", -1, -1, true},
		{"word", "soon", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := WaitSeconds(tc.in)
			require.Equal(t, tc.ok, ok)
			if ok {
				require.Equal(t, tc.want, got)
			}
		})
	}
}
