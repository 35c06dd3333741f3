package apollo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArchive(t *testing.T) {
	t.Run("create new archive", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		a, err := NewArchive(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, a)
		defer a.Close()

		assert.NotNil(t, a.Repositories())
		assert.NotNil(t, a.Repositories().Utterances)
		assert.NotNil(t, a.Repositories().TOC)
		assert.NotNil(t, a.Provider())
		assert.NotNil(t, a.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A file where the database directory should be
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		a, err := NewArchive(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, a)
	})
}

func TestArchive_Close(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.NoError(t, a.Close())
}

func TestArchive_FactoryMethods(t *testing.T) {
	a, err := NewArchive(t.TempDir(), WithImagesDir(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, a)
	defer a.Close()

	t.Run("can create pipeline runner", func(t *testing.T) {
		runner, err := a.NewPipelineRunner(false)
		require.NoError(t, err)
		require.NotNil(t, runner)
	})

	t.Run("can create search service", func(t *testing.T) {
		service, err := a.NewSearchService()
		require.NoError(t, err)
		require.NotNil(t, service)
	})

	t.Run("can create reembedder", func(t *testing.T) {
		reembedder := a.NewReembedder(nil, os.Stderr)
		require.NotNil(t, reembedder)
	})
}
