package workflow

import (
	"context"
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

func saveUtterances(t *testing.T, repos *badgerstore.Repositories, utterances ...*core.Utterance) {
	t.Helper()
	require.NoError(t, repos.Utterances.SaveUtterances(context.Background(), utterances...))
}

func saveEntries(t *testing.T, repos *badgerstore.Repositories, entries ...*core.TOCEntry) {
	t.Helper()
	require.NoError(t, repos.TOC.SaveEntries(context.Background(), entries...))
}

func utteranceAt(seconds int, timestamp, speaker, text string) *core.Utterance {
	return &core.Utterance{
		Timestamp:        timestamp,
		TimestampSeconds: seconds,
		Speaker:          speaker,
		SpeakerID:        "1",
		Text:             text,
	}
}

func entryAt(seconds int, startDate, title string) *core.TOCEntry {
	return &core.TOCEntry{
		StartDate:    startDate,
		StartSeconds: seconds,
		Title:        title,
		Description:  title,
	}
}

func TestGrouperIntervals(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveEntries(t, repos,
		entryAt(0, "000;00;00", "Liftoff"),
		entryAt(100, "000;01;40", "Tower Clear"),
		entryAt(250, "000;04;10", "Staging"),
	)
	saveUtterances(t, repos,
		utteranceAt(10, "000:00:10", "CDR", "Roll program."),
		utteranceAt(100, "000:01:40", "CC", "Tower clear."),
		utteranceAt(150, "000:02:30", "CDR", "Looking good."),
		utteranceAt(300, "000:05:00", "CC", "Staging confirmed."),
	)

	grouper, err := NewGrouper(repos.TOC, repos.Utterances, repos.Noise, false)
	require.NoError(t, err)

	grouped, err := grouper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, grouped)

	first, err := repos.TOC.GetEntry(ctx, "000;00;00")
	require.NoError(t, err)
	assert.Equal(t, "CDR: Roll program.", first.GroupedText)

	// An utterance exactly at the next entry's start belongs to that entry,
	// not this one.
	second, err := repos.TOC.GetEntry(ctx, "000;01;40")
	require.NoError(t, err)
	assert.Equal(t, "CC: Tower clear.\nCDR: Looking good.", second.GroupedText)

	last, err := repos.TOC.GetEntry(ctx, "000;04;10")
	require.NoError(t, err)
	assert.Equal(t, "CC: Staging confirmed.", last.GroupedText)
	require.Len(t, last.Utterances, 1)
	assert.Equal(t, "000:05:00", last.Utterances[0].Timestamp)
}

func TestGrouperFiltersNoisyTexts(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveEntries(t, repos, entryAt(0, "000;00;00", "Liftoff"))
	saveUtterances(t, repos,
		utteranceAt(10, "000:00:10", "CC", "Roger."),
		utteranceAt(20, "000:00:20", "CDR", "Roger."),
		utteranceAt(30, "000:00:30", "CDR", "The clock is running."),
	)
	for i := 0; i < 2; i++ {
		_, err := repos.Noise.Increment(ctx, "Roger.")
		require.NoError(t, err)
	}

	grouper, err := NewGrouper(repos.TOC, repos.Utterances, repos.Noise, false)
	require.NoError(t, err)

	_, err = grouper.Run(ctx)
	require.NoError(t, err)

	entry, err := repos.TOC.GetEntry(ctx, "000;00;00")
	require.NoError(t, err)
	assert.Equal(t, "CDR: The clock is running.", entry.GroupedText)
	assert.Len(t, entry.Utterances, 1)
}

func TestGrouperSkipsGroupedEntries(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	entry := entryAt(0, "000;00;00", "Liftoff")
	entry.GroupedText = "CDR: Previously grouped."
	saveEntries(t, repos, entry)
	saveUtterances(t, repos, utteranceAt(10, "000:00:10", "CC", "New utterance."))

	grouper, err := NewGrouper(repos.TOC, repos.Utterances, repos.Noise, false)
	require.NoError(t, err)

	grouped, err := grouper.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, grouped)

	got, err := repos.TOC.GetEntry(ctx, "000;00;00")
	require.NoError(t, err)
	assert.Equal(t, "CDR: Previously grouped.", got.GroupedText)
}

func TestGrouperOverwrite(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	entry := entryAt(0, "000;00;00", "Liftoff")
	entry.GroupedText = "CDR: Stale."
	saveEntries(t, repos, entry)
	saveUtterances(t, repos, utteranceAt(10, "000:00:10", "CC", "Fresh utterance."))

	grouper, err := NewGrouper(repos.TOC, repos.Utterances, repos.Noise, true)
	require.NoError(t, err)

	grouped, err := grouper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, grouped)

	got, err := repos.TOC.GetEntry(ctx, "000;00;00")
	require.NoError(t, err)
	assert.Equal(t, "CC: Fresh utterance.", got.GroupedText)
}

func TestGrouperEmptyInterval(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveEntries(t, repos,
		entryAt(0, "000;00;00", "Quiet Chapter"),
		entryAt(100, "000;01;40", "Busy Chapter"),
	)
	saveUtterances(t, repos, utteranceAt(150, "000:02:30", "CC", "Only here."))

	grouper, err := NewGrouper(repos.TOC, repos.Utterances, repos.Noise, false)
	require.NoError(t, err)

	grouped, err := grouper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, grouped)

	quiet, err := repos.TOC.GetEntry(ctx, "000;00;00")
	require.NoError(t, err)
	assert.False(t, quiet.Grouped())
}
