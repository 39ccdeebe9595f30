package surfacenav

// Region is the build-time configuration of one navigation grid.
type Region struct {
	// Center translates the sampled lattice into world space.
	Center Vec3 `json:"center" yaml:"center"`
	// Extents are the half-width, half-depth and half-height of the probing volume.
	Extents Vec3 `json:"extents" yaml:"extents"`
	// Density is the number of samples per SpacingUnit.
	Density     float64 `json:"density" yaml:"density"`
	SpacingUnit float64 `json:"spacing_unit" yaml:"spacing_unit"`
	// BufferRadius is how many cells blocked areas are grown by.
	BufferRadius int `json:"buffer_radius" yaml:"buffer_radius"`
}

// DefaultRegion is a 2000x2000x400 volume with ten samples per thousand units
// and a two cell buffer.
func DefaultRegion() Region {
	return Region{
		Extents:      Vec3{X: 1000, Y: 1000, Z: 200},
		Density:      10,
		SpacingUnit:  1000,
		BufferRadius: 2,
	}
}

// Spacing returns the distance between neighbouring samples.
func (r Region) Spacing() float64 {
	if r.Density <= 0 {
		return 0
	}
	return r.SpacingUnit / r.Density
}
