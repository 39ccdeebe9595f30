package surfacenav

import "math"

// Candidate is a sampled lattice point before projection.
type Candidate struct {
	ID GridCoordinate
	// Position is the top of the probe, in world space.
	Position Vec3
}

// Sample lays candidate points over the region. Indices run over
// [1, countX) x [1, countY) so no sample sits exactly on the region boundary.
// Degenerate regions (non-positive extents, density or spacing) yield nil.
func Sample(region Region) []Candidate {
	spacing := region.Spacing()
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil
	}
	if !(region.Extents.X > 0) || !(region.Extents.Y > 0) || !(region.Extents.Z > 0) {
		return nil
	}

	countX := int(math.Floor(region.Extents.X * 2 / spacing))
	countY := int(math.Floor(region.Extents.Y * 2 / spacing))
	if countX < 2 || countY < 2 {
		return nil
	}

	candidates := make([]Candidate, 0, (countX-1)*(countY-1))
	for i := 1; i < countX; i++ {
		for j := 1; j < countY; j++ {
			local := Vec3{
				X: float64(i)*spacing - region.Extents.X,
				Y: float64(j)*spacing - region.Extents.Y,
				Z: region.Extents.Z,
			}
			candidates = append(candidates, Candidate{
				ID:       GridCoordinate{I: i, J: j},
				Position: region.Center.Add(local),
			})
		}
	}
	return candidates
}
