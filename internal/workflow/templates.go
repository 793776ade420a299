package workflow

// ExampleDocument returns the example workflow created by `floww init
// --example`. It is a raw document so it can be saved in any supported
// format.
func ExampleDocument() map[string]any {
	return map[string]any{
		"description": "An example workflow.",
		"workspaces": []any{
			map[string]any{
				"target": 1,
				"apps": []any{
					map[string]any{"name": "Terminal", "exec": "gnome-terminal"},
				},
			},
			map[string]any{
				"target": 2,
				"apps": []any{
					map[string]any{
						"name": "Browser",
						"exec": "firefox",
						"args": []any{"https://github.com/dagimg-dot/floww"},
					},
				},
			},
		},
	}
}

// ScaffoldDocument returns the skeleton created by `floww add`.
func ScaffoldDocument() map[string]any {
	return map[string]any{
		"description": "A new workflow.",
		"workspaces": []any{
			map[string]any{
				"target": 0,
				"apps": []any{
					map[string]any{"name": "Example App", "exec": "app-name", "type": "binary"},
				},
			},
		},
		"final_workspace": 0,
	}
}
