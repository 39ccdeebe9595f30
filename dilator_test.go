package surfacenav

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircularOffsets(t *testing.T) {
	assert.Empty(t, CircularOffsets(0))
	assert.Empty(t, CircularOffsets(-3))

	assert.Equal(t, []Offset{
		{DI: -1, DJ: 0},
		{DI: 0, DJ: -1},
		{DI: 0, DJ: 1},
		{DI: 1, DJ: 0},
	}, CircularOffsets(1))

	radiusTwo := CircularOffsets(2)
	assert.Len(t, radiusTwo, 12)
	for _, offset := range radiusTwo {
		assert.LessOrEqual(t, offset.DI*offset.DI+offset.DJ*offset.DJ, 4)
		assert.NotEqual(t, Offset{}, offset)
	}
	assert.NotContains(t, radiusTwo, Offset{DI: 2, DJ: 1})
	assert.Contains(t, radiusTwo, Offset{DI: 1, DJ: 1})
}

func TestThresholdNodes(t *testing.T) {
	t.Run("blocked node next to walkable", func(t *testing.T) {
		nodes := testGrid(3, 3, GridCoordinate{I: 1, J: 1})
		threshold := ThresholdNodes(nodes)
		require.Len(t, threshold, 1)
		assert.Equal(t, GridCoordinate{I: 1, J: 1}, threshold[0].ID)
	})

	t.Run("interior of a blocked area is not a threshold", func(t *testing.T) {
		var blocked []GridCoordinate
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				blocked = append(blocked, GridCoordinate{I: i, J: j})
			}
		}
		nodes := testGrid(4, 3, blocked...)
		ids := make([]GridCoordinate, 0)
		for _, node := range ThresholdNodes(nodes) {
			ids = append(ids, node.ID)
		}
		// Only column i=2 touches the walkable column i=3.
		assert.ElementsMatch(t, []GridCoordinate{{I: 2, J: 0}, {I: 2, J: 1}, {I: 2, J: 2}}, ids)
	})

	t.Run("diagonal contact does not count", func(t *testing.T) {
		nodes := []Node{
			{ID: GridCoordinate{I: 0, J: 0}, Walkable: false},
			{ID: GridCoordinate{I: 1, J: 1}, Walkable: true},
		}
		assert.Empty(t, ThresholdNodes(nodes))
	})
}

func TestDilate(t *testing.T) {
	obstacle := GridCoordinate{I: 3, J: 3}

	t.Run("radius two around a single obstacle", func(t *testing.T) {
		nodes := testGrid(7, 7, obstacle)
		flipped := Dilate(nodes, 2)
		assert.Equal(t, 12, flipped)

		for _, node := range nodes {
			di := node.ID.I - obstacle.I
			dj := node.ID.J - obstacle.J
			withinReach := di*di+dj*dj <= 4
			assert.Equal(t, !withinReach, node.Walkable, "node %v", node.ID)
			if node.ID != obstacle {
				assert.Equal(t, withinReach, node.Dilated, "node %v", node.ID)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		nodes := testGrid(9, 9, obstacle, GridCoordinate{I: 7, J: 1})
		Dilate(nodes, 2)
		once := slices.Clone(nodes)

		assert.Zero(t, Dilate(nodes, 2))
		assert.Equal(t, once, nodes)
	})

	t.Run("radius zero changes nothing", func(t *testing.T) {
		nodes := testGrid(7, 7, obstacle)
		before := slices.Clone(nodes)
		assert.Zero(t, Dilate(nodes, 0))
		assert.Equal(t, before, nodes)
	})

	t.Run("order independent", func(t *testing.T) {
		blocked := []GridCoordinate{{I: 1, J: 1}, {I: 5, J: 2}, {I: 2, J: 6}}
		forward := testGrid(8, 8, blocked...)
		reversed := testGrid(8, 8, blocked...)
		slices.Reverse(reversed)

		Dilate(forward, 2)
		Dilate(reversed, 2)
		assert.Equal(t, walkability(forward), walkability(reversed))
	})

	t.Run("sparse grid skips missing cells", func(t *testing.T) {
		nodes := []Node{
			{ID: GridCoordinate{I: 0, J: 0}, Walkable: false},
			{ID: GridCoordinate{I: 1, J: 0}, Walkable: true},
			{ID: GridCoordinate{I: 3, J: 0}, Walkable: true},
		}
		assert.Equal(t, 1, Dilate(nodes, 2))
		assert.False(t, nodes[1].Walkable)
		assert.True(t, nodes[2].Walkable)
	})
}
