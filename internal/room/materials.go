package room

import "sort"

// Material describes the acoustic character of a surface or obstacle.
// AbsorptionCoefficient and ReflectionCoefficient are estimated independently
// by the capture pipeline and are not constrained to sum to 1.
type Material struct {
	Name                  string  `json:"name"`
	AbsorptionCoefficient float64 `json:"absorption_coefficient"`
	ReflectionCoefficient float64 `json:"reflection_coefficient"`
	Density               float64 `json:"density"`
}

// presetMaterials holds mid-band (500 Hz) absorption figures for common
// building materials. Used for fixtures and for callers that describe rooms
// by material name instead of measured coefficients.
var presetMaterials = map[string]Material{
	"concrete":       {Name: "concrete", AbsorptionCoefficient: 0.02, ReflectionCoefficient: 0.97, Density: 2400},
	"brick":          {Name: "brick", AbsorptionCoefficient: 0.03, ReflectionCoefficient: 0.96, Density: 1900},
	"glass":          {Name: "glass", AbsorptionCoefficient: 0.05, ReflectionCoefficient: 0.93, Density: 2500},
	"drywall":        {Name: "drywall", AbsorptionCoefficient: 0.08, ReflectionCoefficient: 0.90, Density: 800},
	"wood":           {Name: "wood", AbsorptionCoefficient: 0.10, ReflectionCoefficient: 0.88, Density: 700},
	"carpet":         {Name: "carpet", AbsorptionCoefficient: 0.40, ReflectionCoefficient: 0.55, Density: 200},
	"curtain":        {Name: "curtain", AbsorptionCoefficient: 0.50, ReflectionCoefficient: 0.45, Density: 400},
	"acoustic_panel": {Name: "acoustic_panel", AbsorptionCoefficient: 0.90, ReflectionCoefficient: 0.08, Density: 100},
}

// MaterialByName looks up a preset material. The second return value is false
// if the name is unknown.
func MaterialByName(name string) (Material, bool) {
	m, ok := presetMaterials[name]
	return m, ok
}

// Materials returns all preset materials sorted by name.
func Materials() []Material {
	out := make([]Material, 0, len(presetMaterials))
	for _, m := range presetMaterials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
