package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/apollo/ai/mock"
	badgerstore "github.com/poiesic/apollo/storage/badger"
)

func setupRepositories(t *testing.T) *badgerstore.Repositories {
	t.Helper()
	repos, err := badgerstore.NewMemoryRepositories(mock.NewMockEmbedder())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, repos.Close())
	})
	return repos
}

func TestUtteranceLoaderLoad(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	path := writeRowFile(t, [][]string{
		{"0710700", "CDR", "Houston, Tranquility Base here.", "10"},
		{"0710702", "CC", "Roger, Tranquility.", "4"},
	})

	loader := NewUtteranceLoader(repos.Utterances, repos.Noise)
	stored, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	u, err := repos.Utterances.GetUtterance(ctx, "071:07:00")
	require.NoError(t, err)
	assert.Equal(t, "CDR", u.Speaker)
	assert.Equal(t, "10", u.SpeakerID)
	assert.Equal(t, "Houston, Tranquility Base here.", u.Text)
	assert.Equal(t, 71*3600+7*60, u.TimestampSeconds)
	assert.NotEmpty(t, u.Vector)
}

func TestUtteranceLoaderSkipsInvalid(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	path := writeRowFile(t, [][]string{
		{"0710700", "CDR", "Houston, Tranquility Base here.", "10"},
		{"0710701", "", "No speaker on this one.", "0"},
		{"0710702", "CC", "...", "4"},
		{"banana!", "CC", "Bad timecode.", "4"},
		{"0710703", "CC", "Roger.", "4"},
	})

	loader := NewUtteranceLoader(repos.Utterances, repos.Noise)
	stored, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	count, err := repos.Utterances.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUtteranceLoaderNegativeTimecode(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	path := writeRowFile(t, [][]string{
		{"-0000104", "CDR", "Minus one minute and counting.", "10"},
	})

	loader := NewUtteranceLoader(repos.Utterances, repos.Noise)
	stored, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	u, err := repos.Utterances.GetUtterance(ctx, "-000:01:04")
	require.NoError(t, err)
	assert.Equal(t, -64, u.TimestampSeconds)
}

func TestUtteranceLoaderCountsRepeatedText(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	path := writeRowFile(t, [][]string{
		{"0710700", "CC", "Roger.", "4"},
		{"0710710", "CDR", "Roger.", "10"},
		{"0710720", "CC", "Copy that.", "4"},
	})

	loader := NewUtteranceLoader(repos.Utterances, repos.Noise)
	_, err := loader.Load(ctx, path)
	require.NoError(t, err)

	count, err := repos.Noise.GetCount(ctx, "Roger.")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	count, err = repos.Noise.GetCount(ctx, "Copy that.")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestExpandCompactTimecode(t *testing.T) {
	assert.Equal(t, "071:07:00", expandCompactTimecode("0710700"))
	assert.Equal(t, "-000:01:04", expandCompactTimecode("-0000104"))
}
