package workflow

import (
	"fmt"
	"strings"
)

// SchemaError reports a structural violation of a workflow document.
// Path points at the offending field, e.g. "workspaces[1].apps[0].exec".
type SchemaError struct {
	Workflow string
	Path     string
	Msg      string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("workflow %q: %s", e.Workflow, e.Msg)
	}
	return fmt.Sprintf("workflow %q: %s: %s", e.Workflow, e.Path, e.Msg)
}

func schemaErr(name, path, format string, args ...any) error {
	return &SchemaError{Workflow: name, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// asInt coerces a decoded scalar to int. JSON decodes all numbers as
// float64 and TOML as int64, so every integral representation counts.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// Validate checks a decoded workflow document against the required schema.
// It returns a *SchemaError describing the first violation found.
//
// As a side effect, each app mapping gets its "type" key normalized to
// "binary" when absent, in place, so callers can re-save or decode the
// document without repeating the defaulting logic. Validate performs no I/O.
func Validate(name string, doc any) error {
	if doc == nil {
		return schemaErr(name, "", "document is empty or contains only null")
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return schemaErr(name, "", "document must be a mapping, got %T", doc)
	}

	rawSteps, ok := root["workspaces"]
	if !ok {
		return schemaErr(name, "workspaces", "missing required key")
	}
	steps, ok := rawSteps.([]any)
	if !ok {
		return schemaErr(name, "workspaces", "must be a sequence, got %T", rawSteps)
	}

	if raw, ok := root["final_workspace"]; ok {
		final, isInt := asInt(raw)
		if !isInt || final < 0 {
			return schemaErr(name, "final_workspace", "must be an integer >= 0, got %v", raw)
		}
	}

	for i, rawStep := range steps {
		path := fmt.Sprintf("workspaces[%d]", i)

		step, ok := rawStep.(map[string]any)
		if !ok {
			return schemaErr(name, path, "must be a mapping, got %T", rawStep)
		}

		rawTarget, ok := step["target"]
		if !ok {
			return schemaErr(name, path+".target", "missing required key")
		}
		target, isInt := asInt(rawTarget)
		if !isInt || target < 0 {
			return schemaErr(name, path+".target", "must be an integer >= 0, got %v", rawTarget)
		}

		rawApps, ok := step["apps"]
		if !ok {
			return schemaErr(name, path+".apps", "missing required key")
		}
		apps, ok := rawApps.([]any)
		if !ok {
			return schemaErr(name, path+".apps", "must be a sequence, got %T", rawApps)
		}

		for j, rawApp := range apps {
			appPath := fmt.Sprintf("%s.apps[%d]", path, j)

			app, ok := rawApp.(map[string]any)
			if !ok {
				return schemaErr(name, appPath, "must be a mapping, got %T", rawApp)
			}
			if _, ok := app["name"]; !ok {
				return schemaErr(name, appPath+".name", "missing required key")
			}
			execVal, ok := app["exec"].(string)
			if !ok || strings.TrimSpace(execVal) == "" {
				return schemaErr(name, appPath+".exec", "must be a non-empty string")
			}
			if rawArgs, ok := app["args"]; ok {
				if _, ok := rawArgs.([]any); !ok {
					return schemaErr(name, appPath+".args", "must be a sequence, got %T", rawArgs)
				}
			}

			// Normalize the app kind in place.
			kind := string(KindBinary)
			if rawKind, ok := app["type"]; ok {
				kind, ok = rawKind.(string)
				if !ok {
					return schemaErr(name, appPath+".type", "must be a string, got %T", rawKind)
				}
			}
			if !Kind(kind).Valid() {
				return schemaErr(name, appPath+".type",
					"must be one of %q, %q, %q, got %q", KindBinary, KindFlatpak, KindSnap, kind)
			}
			app["type"] = kind
		}
	}

	if rawDesc, ok := root["description"]; ok {
		if _, ok := rawDesc.(string); !ok {
			return schemaErr(name, "description", "must be a string, got %T", rawDesc)
		}
	}

	return nil
}
