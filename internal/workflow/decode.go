package workflow

import "fmt"

// FromDocument converts a validated workflow document into its typed form.
// It must only be called after Validate has accepted the document; shape
// assumptions here are guaranteed by the validator.
func FromDocument(name string, doc any) *Workflow {
	root := doc.(map[string]any)

	wf := &Workflow{Name: name}

	if desc, ok := root["description"].(string); ok {
		wf.Description = desc
	}
	if raw, ok := root["final_workspace"]; ok {
		final, _ := asInt(raw)
		wf.Final = &final
	}

	for _, rawStep := range root["workspaces"].([]any) {
		stepDoc := rawStep.(map[string]any)
		target, _ := asInt(stepDoc["target"])

		step := Step{Target: target}
		for _, rawApp := range stepDoc["apps"].([]any) {
			appDoc := rawApp.(map[string]any)

			app := App{
				Exec: appDoc["exec"].(string),
				Kind: Kind(appDoc["type"].(string)),
				Wait: appDoc["wait"],
			}
			if name, ok := appDoc["name"].(string); ok {
				app.Name = name
			}
			if rawArgs, ok := appDoc["args"].([]any); ok {
				for _, arg := range rawArgs {
					// Scalars of any type are coerced to strings.
					app.Args = append(app.Args, fmt.Sprint(arg))
				}
			}
			step.Apps = append(step.Apps, app)
		}
		wf.Steps = append(wf.Steps, step)
	}

	return wf
}
