package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Options{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createDocs(t *testing.T, s *Store, distance vectordb.Distance) {
	t.Helper()
	require.NoError(t, s.CreateCollection(context.Background(), vectordb.CollectionSpec{
		Name: "docs", VectorSize: 4, Distance: distance,
	}))
}

func TestOpenLayouts(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	s, err := Open(ctx, Options{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DatabaseFile), s.Path())
	require.NoError(t, s.Close())
	_, err = os.Stat(filepath.Join(dir, DatabaseFile))
	assert.NoError(t, err)

	file := filepath.Join(t.TempDir(), "nested", "custom.db")
	s, err = Open(ctx, Options{Path: file})
	require.NoError(t, err)
	assert.Equal(t, file, s.Path())
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Path: MemoryPath})
	require.NoError(t, err)
	names, err := s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{})
	assert.Error(t, err)
}

func TestCollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	exists, err := s.CollectionExists(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, exists)

	createDocs(t, s, vectordb.DistanceCosine)

	exists, err = s.CollectionExists(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.CreateCollection(ctx, vectordb.CollectionSpec{Name: "docs", VectorSize: 4, Distance: vectordb.DistanceDot})
	assert.ErrorIs(t, err, vectordb.ErrBackendConflict)

	info, err := s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, vectordb.Collection{
		Name: "docs", VectorSize: 4, Distance: vectordb.DistanceCosine, Status: "green",
	}, info)

	names, err := s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names)

	require.NoError(t, s.DeleteCollection(ctx, "docs"))
	assert.ErrorIs(t, s.DeleteCollection(ctx, "docs"), vectordb.ErrBackendNotFound)

	_, err = s.GetCollection(ctx, "docs")
	assert.ErrorIs(t, err, vectordb.ErrBackendNotFound)
}

func TestUpsertRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	createDocs(t, s, vectordb.DistanceCosine)

	points := []vectordb.Point{
		{ID: vectordb.NewStringID("p1"), Vector: []float32{0.1, 0.2, 0.3, 0.4}, Payload: map[string]any{"lang": "en", "n": int64(3)}},
		{ID: vectordb.NewNumericID(7), Vector: []float32{0.4, 0.3, 0.2, 0.1}},
		{ID: vectordb.NewStringID("7"), Vector: []float32{1, 0, 0, 0}},
	}
	require.NoError(t, s.Upsert(ctx, "docs", points))

	info, err := s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.EqualValues(t, 3, info.PointsCount)

	got, err := s.Retrieve(ctx, "docs", []vectordb.PointID{vectordb.NewStringID("p1")}, true, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, points[0].Vector, got[0].Vector)
	assert.Equal(t, map[string]any{"lang": "en", "n": int64(3)}, got[0].Payload)

	got, err = s.Retrieve(ctx, "docs", []vectordb.PointID{vectordb.NewNumericID(7)}, false, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ID.IsNumeric())
	assert.Nil(t, got[0].Vector)
	assert.Nil(t, got[0].Payload)

	got, err = s.Retrieve(ctx, "docs", []vectordb.PointID{vectordb.NewStringID("missing")}, true, false)
	require.NoError(t, err)
	assert.Empty(t, got)

	// overwrite keeps the count
	require.NoError(t, s.Upsert(ctx, "docs", points[:1]))
	info, err = s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.EqualValues(t, 3, info.PointsCount)

	require.NoError(t, s.Delete(ctx, "docs", []vectordb.PointID{vectordb.NewNumericID(7), vectordb.NewStringID("nope")}))
	info, err = s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.EqualValues(t, 2, info.PointsCount)

	_, err = s.Retrieve(ctx, "other", []vectordb.PointID{vectordb.NewStringID("p1")}, true, false)
	assert.ErrorIs(t, err, vectordb.ErrBackendNotFound)
}

func TestUpsertDimensionErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	createDocs(t, s, vectordb.DistanceCosine)

	err := s.Upsert(ctx, "docs", []vectordb.Point{
		{ID: vectordb.NewStringID("ok"), Vector: []float32{1, 2, 3, 4}},
		{ID: vectordb.NewStringID("bad"), Vector: []float32{1, 2, 3}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, vectordb.ErrBackendInvalid))

	info, err := s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Zero(t, info.PointsCount)
}

func TestDeleteCollectionCascades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	createDocs(t, s, vectordb.DistanceCosine)
	require.NoError(t, s.Upsert(ctx, "docs", []vectordb.Point{{ID: vectordb.NewStringID("a"), Vector: []float32{1, 0, 0, 0}}}))

	require.NoError(t, s.DeleteCollection(ctx, "docs"))
	createDocs(t, s, vectordb.DistanceCosine)

	info, err := s.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Zero(t, info.PointsCount)
}
