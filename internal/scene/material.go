package scene

import (
	"fmt"

	"trailfx/internal/mesh"
	"trailfx/internal/shader"
	"trailfx/internal/texture"
)

// ProceduralSize is the edge length of fallback textures.
const ProceduralSize = 256

// LoadMaterial resolves the base and emissive textures by name. An empty name
// or a failed load falls back to the procedural texture; each failure is
// returned as a warning.
func LoadMaterial(r texture.Resolver, base, emissive string) (*shader.Material, []error) {
	var warnings []error
	m := &shader.Material{
		Base:     texture.DefaultBase(ProceduralSize),
		Emissive: texture.DefaultEmissive(ProceduralSize),
	}
	if base != "" {
		if img, err := r.Load(base); err != nil {
			warnings = append(warnings, fmt.Errorf("scene: base texture: %w", err))
		} else {
			m.Base = img
		}
	}
	if emissive != "" {
		if img, err := r.Load(emissive); err != nil {
			warnings = append(warnings, fmt.Errorf("scene: emissive texture: %w", err))
		} else {
			m.Emissive = img
		}
	}
	return m, warnings
}

// DefaultObject builds the named procedural mesh at DefaultPosition.
func DefaultObject(meshName string, resolution int, m *shader.Material) (Object, error) {
	msh, err := mesh.ByName(meshName, resolution)
	if err != nil {
		return Object{}, fmt.Errorf("scene: %w", err)
	}
	return Object{
		Name:     msh.Name,
		Mesh:     msh,
		Material: m,
		Position: DefaultPosition,
	}, nil
}
