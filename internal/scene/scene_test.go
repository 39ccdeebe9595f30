package scene

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/surfacenav"
)

func testScene(t *testing.T) *Scene {
	t.Helper()
	s, err := New(Definition{Surfaces: []Surface{
		{Name: "floor", Min: [2]float64{-1000, -1000}, Max: [2]float64{1000, 1000}, Top: 0, Tags: []string{surfacenav.WalkableTag}},
		{Name: "rock", Min: [2]float64{-50, -50}, Max: [2]float64{50, 50}, Top: 80, Tags: []string{"Rock"}},
		{Name: "canopy", Min: [2]float64{200, 200}, Max: [2]float64{400, 400}, Top: 500, Tags: []string{"Leaves"}},
	}})
	require.NoError(t, err)
	return s
}

func probeDown(s *Scene, x, y float64) (surfacenav.SurfaceHit, bool) {
	return s.Probe(surfacenav.Vec3{X: x, Y: y, Z: 200}, surfacenav.Vec3{X: x, Y: y, Z: -200})
}

func TestProbe(t *testing.T) {
	s := testScene(t)
	require.Equal(t, 3, s.Len())

	t.Run("highest slab wins", func(t *testing.T) {
		hit, ok := probeDown(s, 0, 0)
		require.True(t, ok)
		assert.Equal(t, surfacenav.Vec3{X: 0, Y: 0, Z: 80}, hit.Position)
		assert.Equal(t, []string{"Rock"}, hit.Tags)
	})

	t.Run("open floor", func(t *testing.T) {
		hit, ok := probeDown(s, 600, -300)
		require.True(t, ok)
		assert.Equal(t, 0.0, hit.Position.Z)
		assert.Equal(t, []string{surfacenav.WalkableTag}, hit.Tags)
	})

	t.Run("slab above the probe is ignored", func(t *testing.T) {
		hit, ok := probeDown(s, 300, 300)
		require.True(t, ok)
		assert.Equal(t, 0.0, hit.Position.Z)
	})

	t.Run("footprint edge counts", func(t *testing.T) {
		hit, ok := probeDown(s, 50, 0)
		require.True(t, ok)
		assert.Equal(t, 80.0, hit.Position.Z)
	})

	t.Run("outside every footprint", func(t *testing.T) {
		_, ok := probeDown(s, 2000, 0)
		assert.False(t, ok)
	})

	t.Run("non vertical probe", func(t *testing.T) {
		_, ok := s.Probe(surfacenav.Vec3{X: 0, Y: 0, Z: 200}, surfacenav.Vec3{X: 1, Y: 0, Z: -200})
		assert.False(t, ok)
	})

	t.Run("tags are copied", func(t *testing.T) {
		hit, _ := probeDown(s, 0, 0)
		hit.Tags[0] = surfacenav.WalkableTag
		again, _ := probeDown(s, 0, 0)
		assert.Equal(t, []string{"Rock"}, again.Tags)
	})
}

func TestNewRejectsInvalidSurfaces(t *testing.T) {
	_, err := New(Definition{Surfaces: []Surface{{Name: "flat", Min: [2]float64{0, 0}, Max: [2]float64{0, 10}}}})
	assert.ErrorIs(t, err, ErrInvalidSurface)
	assert.Contains(t, err.Error(), "flat")
}

func TestBuildOverScene(t *testing.T) {
	region := surfacenav.Region{
		Extents:      surfacenav.Vec3{X: 500, Y: 500, Z: 200},
		Density:      10,
		SpacingUnit:  1000,
		BufferRadius: 1,
	}
	graph, result := surfacenav.Build(context.Background(), region, testScene(t).Query())
	require.True(t, result.Active)
	assert.Equal(t, 81, result.NodeCount)

	rock, found := graph.Node(surfacenav.GridCoordinate{I: 5, J: 5})
	require.True(t, found)
	assert.False(t, rock.Walkable)
	assert.Equal(t, 80.0, rock.Position.Z)

	path := graph.FindPath(surfacenav.Vec3{X: -400}, surfacenav.Vec3{X: 400})
	require.NotEmpty(t, path)
	for _, node := range path {
		assert.Equal(t, 0.0, node.Position.Z)
	}
}
