package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/apollo/ai/mock"
)

func TestPhotographLoaderLoad(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	path := writeRowFile(t, [][]string{
		{"367906", "AS11-40-5903", "ignored/path.jpg", "https://example.org/5903", "Buzz Aldrin on the lunar surface."},
	})

	loader := NewPhotographLoader(repos.Photographs, "/data/images")
	stored, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	p, err := repos.Photographs.GetPhotograph(ctx, "367906")
	require.NoError(t, err)
	assert.Equal(t, "AS11-40-5903", p.Name)
	assert.Equal(t, "https://example.org/5903", p.ExternalURL)
	assert.Equal(t, filepath.Join("/data/images", "367906.jpg"), p.ImagePath)
	assert.NotEmpty(t, p.DescriptionVector)
	assert.Empty(t, p.ImageVector)
}

func TestPhotographLoaderSkipsExisting(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	path := writeRowFile(t, [][]string{
		{"367906", "AS11-40-5903", "", "https://example.org/5903", "Buzz Aldrin on the lunar surface."},
	})

	loader := NewPhotographLoader(repos.Photographs, "/data/images")
	stored, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	stored, err = loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, stored)
}

func TestPhotographLoaderOverwrite(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	first := writeRowFile(t, [][]string{
		{"367906", "AS11-40-5903", "", "https://example.org/5903", "Original description."},
	})
	second := writeRowFile(t, [][]string{
		{"367906", "AS11-40-5903", "", "https://example.org/5903", "Updated description."},
	})

	loader := NewPhotographLoader(repos.Photographs, "/data/images")
	_, err := loader.Load(ctx, first)
	require.NoError(t, err)

	overwriting := NewPhotographLoader(repos.Photographs, "/data/images", WithOverwrite(true))
	stored, err := overwriting.Load(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	p, err := repos.Photographs.GetPhotograph(ctx, "367906")
	require.NoError(t, err)
	assert.Equal(t, "Updated description.", p.Description)
}

func TestPhotographLoaderSkipsBadTimestamp(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	path := writeRowFile(t, [][]string{
		{"not-a-number", "AS11-40-5903", "", "https://example.org/5903", "Description."},
		{"367906", "AS11-40-5904", "", "https://example.org/5904", "Another description."},
	})

	loader := NewPhotographLoader(repos.Photographs, "/data/images")
	stored, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}

func TestPhotographLoaderEmbedsImages(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	imagesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "367906.jpg"), []byte("jpeg bytes"), 0o644))

	path := writeRowFile(t, [][]string{
		{"367906", "AS11-40-5903", "", "https://example.org/5903", "Buzz Aldrin on the lunar surface."},
		{"367907", "AS11-40-5904", "", "https://example.org/5904", "Missing image file."},
	})

	loader := NewPhotographLoader(repos.Photographs, imagesDir, WithImageEmbedder(mock.NewMockImageEmbedder()))
	stored, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	p, err := repos.Photographs.GetPhotograph(ctx, "367906")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ImageVector)

	// The photograph without an image file is still stored, text-only.
	p, err = repos.Photographs.GetPhotograph(ctx, "367907")
	require.NoError(t, err)
	assert.Empty(t, p.ImageVector)
}
