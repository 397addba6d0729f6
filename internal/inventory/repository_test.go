package inventory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocerease/pkg/inventory"
	"grocerease/pkg/storage"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close(db) })

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func sampleDocument(t *testing.T, seed uint64, faces int) inventory.Document {
	t.Helper()
	items, err := inventory.NewSeededGenerator(seed).Generate(faces, 6)
	require.NoError(t, err)
	colors, err := inventory.BuildFaceColorMap(faces, inventory.DefaultPalette)
	require.NoError(t, err)
	return inventory.Document{Items: items, FaceColors: colors}
}

func TestRepositoryReplaceAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)
	doc := sampleDocument(t, 4, 12)

	require.NoError(t, repo.Replace(ctx, doc))
	got, err := repo.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got.Items, len(doc.Items))
	for i, want := range doc.Items {
		have := got.Items[i]
		assert.Equal(t, want.ID, have.ID)
		assert.Equal(t, want.Name, have.Name)
		assert.Equal(t, want.Barcode, have.Barcode)
		assert.Equal(t, want.FaceID, have.FaceID)
		assert.Equal(t, want.Description, have.Description)
		assert.True(t, want.Price.Equal(have.Price), "%s: want %s, got %s", want.ID, want.Price, have.Price)
		assert.Equal(t, want.Unit, have.Unit)
		assert.Equal(t, want.Category, have.Category)
		assert.Equal(t, want.Brand, have.Brand)
		assert.Equal(t, want.ImageURL, have.ImageURL)
	}
	assert.Equal(t, doc.FaceColors, got.FaceColors)
}

func TestRepositoryReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	require.NoError(t, repo.Replace(ctx, sampleDocument(t, 1, 10)))
	second := sampleDocument(t, 2, 3)
	require.NoError(t, repo.Replace(ctx, second))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, len(second.Items))
	assert.Equal(t, second.Items[0].ID, got.Items[0].ID)
	assert.Len(t, got.FaceColors, 3)
}

func TestRepositoryLoadEmpty(t *testing.T) {
	got, err := setupRepository(t).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Empty(t, got.FaceColors)
}
