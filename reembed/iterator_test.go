package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/apollo/ai/mock"
	"github.com/poiesic/apollo/core"
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

func seedUtterances(t *testing.T, repos *badgerstore.Repositories, n int) {
	t.Helper()
	utterances := make([]*core.Utterance, n)
	for i := 0; i < n; i++ {
		utterances[i] = &core.Utterance{
			Timestamp:        fmt.Sprintf("000:00:%02d", i),
			TimestampSeconds: i,
			Speaker:          "CDR",
			SpeakerID:        "10",
			Text:             fmt.Sprintf("Utterance number %d.", i),
		}
	}
	require.NoError(t, repos.Utterances.SaveUtterances(context.Background(), utterances...))
}

func TestUtteranceIteratorForEach(t *testing.T) {
	repos := setupRepositories(t)
	seedUtterances(t, repos, 25)

	iterator := NewUtteranceIterator(repos.Utterances, 10)

	var batchSizes []int
	var seen []string
	err := iterator.ForEach(context.Background(), func(batch []*core.Utterance) error {
		batchSizes = append(batchSizes, len(batch))
		for _, u := range batch {
			seen = append(seen, u.Timestamp)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 5}, batchSizes)
	assert.Len(t, seen, 25)
	assert.Equal(t, "000:00:00", seen[0])
	assert.Equal(t, "000:00:24", seen[24])
}

func TestUtteranceIteratorEmpty(t *testing.T) {
	repos := setupRepositories(t)

	iterator := NewUtteranceIterator(repos.Utterances, 10)
	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Utterance) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestUtteranceIteratorStopsOnError(t *testing.T) {
	repos := setupRepositories(t)
	seedUtterances(t, repos, 25)

	iterator := NewUtteranceIterator(repos.Utterances, 10)
	boom := errors.New("boom")
	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Utterance) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestUtteranceIteratorContextCancelled(t *testing.T) {
	repos := setupRepositories(t)
	seedUtterances(t, repos, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iterator := NewUtteranceIterator(repos.Utterances, 10)
	err := iterator.ForEach(ctx, func(batch []*core.Utterance) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
