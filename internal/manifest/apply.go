package manifest

import (
	"fmt"

	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

// Apply writes the manifest overrides into the registry. Every plugin and
// parameter named in the manifest must already be registered.
func (m *Manifest) Apply(reg *procedure.Registry) error {
	for _, plugin := range m.Plugins {
		plugin := plugin
		err := reg.Update(plugin.Name, func(p *procedure.Procedure) error {
			if plugin.Blurb != nil {
				p.Blurb = *plugin.Blurb
			}
			if plugin.MenuPath != nil {
				p.MenuPath = *plugin.MenuPath
			}
			if plugin.MenuLabel != nil {
				p.MenuLabel = *plugin.MenuLabel
			}
			if plugin.Interpreter != nil {
				p.Interpreter = *plugin.Interpreter
			}

			for _, override := range plugin.Params {
				idx := -1
				for i, def := range p.Params {
					if def.Name == override.Name {
						idx = i
						break
					}
				}
				if idx < 0 {
					return fmt.Errorf("unknown param %q", override.Name)
				}
				if override.Default != nil {
					p.Params[idx].Default = *override.Default
				}
				if override.Description != nil {
					p.Params[idx].Description = *override.Description
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("manifest %s: %w", plugin.Source, err)
		}
	}
	return nil
}
