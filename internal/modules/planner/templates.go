// README: Instruction templates (embedded YAML) keyed by intent.
package planner

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"trailmate/internal/modules/intent"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

// Template is the instruction set for one intent.
type Template struct {
	System string   `yaml:"system"`
	Enrich []string `yaml:"enrich"`
}

// Templates maps actionable intents to their instructions.
type Templates map[intent.Intent]Template

// LoadTemplates parses YAML and requires exactly one non-empty template per actionable intent.
func LoadTemplates(data []byte) (Templates, error) {
	var raw map[string]Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	out := make(Templates, len(raw))
	for name, tpl := range raw {
		in := intent.Parse(name)
		if !in.IsActionable() {
			return nil, fmt.Errorf("template %q: not an actionable intent", name)
		}
		if tpl.System == "" {
			return nil, fmt.Errorf("template %q: empty system instructions", name)
		}
		out[in] = tpl
	}
	for _, in := range intent.Actionable {
		if _, ok := out[in]; !ok {
			return nil, fmt.Errorf("missing template for %s", in)
		}
	}
	return out, nil
}

// DefaultTemplates returns the embedded templates.
func DefaultTemplates() Templates {
	t, err := LoadTemplates(defaultTemplatesYAML)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Templates) Lookup(in intent.Intent) (Template, bool) {
	tpl, ok := t[in]
	return tpl, ok
}

func (tpl Template) wants(source string) bool {
	for _, s := range tpl.Enrich {
		if s == source {
			return true
		}
	}
	return false
}
