package gridstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/surfacenav"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "grids.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleNodes() []surfacenav.Node {
	return []surfacenav.Node{
		{ID: surfacenav.GridCoordinate{I: 1, J: 1}, Position: surfacenav.Vec3{X: -100, Y: -100, Z: 0.5}, Walkable: true},
		{ID: surfacenav.GridCoordinate{I: 1, J: 2}, Position: surfacenav.Vec3{X: -100, Y: 0, Z: 0.5}, Walkable: false, Dilated: true},
		{ID: surfacenav.GridCoordinate{I: 2, J: 1}, Position: surfacenav.Vec3{X: 0, Y: -100, Z: 12}, Walkable: false},
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, _, found, err := store.LoadGraph(ctx, "plaza@1")
	require.NoError(t, err)
	assert.False(t, found)

	result := surfacenav.BuildResult{CandidateCount: 4, NodeCount: 3, WalkableCount: 1, DilatedCount: 1, Active: true}
	require.NoError(t, store.SaveGraph(ctx, "plaza@1", sampleNodes(), result))

	nodes, loadedResult, found, err := store.LoadGraph(ctx, "plaza@1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, result, loadedResult)
	if diff := cmp.Diff(sampleNodes(), nodes); diff != "" {
		t.Fatalf("nodes differ (-want +got):\n%s", diff)
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.SaveGraph(ctx, "plaza@1", sampleNodes(), surfacenav.BuildResult{NodeCount: 3, Active: true}))
	require.NoError(t, store.SaveGraph(ctx, "plaza@1", sampleNodes()[:1], surfacenav.BuildResult{NodeCount: 1, Active: true}))
	require.NoError(t, store.SaveGraph(ctx, "other@2", sampleNodes(), surfacenav.BuildResult{NodeCount: 3, Active: true}))

	nodes, result, found, err := store.LoadGraph(ctx, "plaza@1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, nodes, 1)
	assert.Equal(t, 1, result.NodeCount)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"plaza@1", "other@2"}, keys)

	require.NoError(t, store.Delete(ctx, "plaza@1"))
	_, _, found, err = store.LoadGraph(ctx, "plaza@1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNavigatorUsesStore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	navigator := surfacenav.NewNavigator(surfacenav.WithGraphCache(store))

	region := surfacenav.Region{Extents: surfacenav.Vec3{X: 300, Y: 300, Z: 10}, Density: 10, SpacingUnit: 1000}
	probes := 0
	query := func(from, to surfacenav.Vec3) (surfacenav.SurfaceHit, bool) {
		probes++
		return surfacenav.SurfaceHit{Position: surfacenav.Vec3{X: from.X, Y: from.Y}, Tags: []string{surfacenav.WalkableTag}}, true
	}

	first := navigator.Rebuild(ctx, region, query, "square@x")
	require.True(t, first.Active)
	require.Equal(t, 25, probes)

	second := navigator.Rebuild(ctx, region, query, "square@x")
	assert.Equal(t, first, second)
	assert.Equal(t, 25, probes)
	assert.Equal(t, 25, navigator.Graph().Len())
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
