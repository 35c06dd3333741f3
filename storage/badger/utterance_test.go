package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/apollo/ai/mock"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

func setupRepositories(t *testing.T) *Repositories {
	t.Helper()

	repos, err := NewMemoryRepositories(mock.NewMockEmbedder())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, repos.Close())
	})
	return repos
}

func makeUtterance(timestamp string, seconds int, text string) *core.Utterance {
	return &core.Utterance{
		Timestamp:        timestamp,
		TimestampSeconds: seconds,
		Speaker:          "Michael Collins",
		SpeakerID:        "CMP",
		Text:             text,
	}
}

func TestUtteranceRepository_SaveAndGet(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	u := makeUtterance("071:07:00", 71*3600+7*60, "Roger, reading you loud and clear.")
	require.NoError(t, repos.Utterances.SaveUtterances(ctx, u))

	// Embed-on-save populated the vector
	assert.NotEmpty(t, u.Vector)

	got, err := repos.Utterances.GetUtterance(ctx, "071:07:00")
	require.NoError(t, err)
	assert.Equal(t, u.Text, got.Text)
	assert.Equal(t, u.Vector, got.Vector)
}

func TestUtteranceRepository_GetMissing(t *testing.T) {
	repos := setupRepositories(t)

	_, err := repos.Utterances.GetUtterance(context.Background(), "999:00:00")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUtteranceRepository_SaveOverwrites(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Utterances.SaveUtterances(ctx, makeUtterance("000:01:00", 60, "first")))
	require.NoError(t, repos.Utterances.SaveUtterances(ctx, makeUtterance("000:01:00", 60, "second")))

	got, err := repos.Utterances.GetUtterance(ctx, "000:01:00")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)

	count, err := repos.Utterances.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUtteranceRepository_GetUtterancesInRange(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Utterances.SaveUtterances(ctx,
		makeUtterance("-000:10:00", -600, "pre-launch check"),
		makeUtterance("000:00:10", 10, "cleared the tower"),
		makeUtterance("000:01:40", 100, "roll program"),
		makeUtterance("000:02:30", 150, "staging"),
		makeUtterance("000:05:00", 300, "go for orbit"),
	))

	// Half-open interval: the utterance at the end boundary is excluded
	got, err := repos.Utterances.GetUtterancesInRange(ctx, 10, 150)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cleared the tower", got[0].Text)
	assert.Equal(t, "roll program", got[1].Text)

	// Negative seconds sort before launch
	got, err = repos.Utterances.GetUtterancesInRange(ctx, -3600, 11)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pre-launch check", got[0].Text)
	assert.Equal(t, "cleared the tower", got[1].Text)
}

func TestUtteranceRepository_GetUtterancesFrom(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Utterances.SaveUtterances(ctx,
		makeUtterance("000:01:40", 100, "roll program"),
		makeUtterance("000:02:30", 150, "staging"),
		makeUtterance("000:05:00", 300, "go for orbit"),
	))

	got, err := repos.Utterances.GetUtterancesFrom(ctx, 150)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "staging", got[0].Text)
	assert.Equal(t, "go for orbit", got[1].Text)
}

func TestUtteranceRepository_GetUtteranceBatch(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Utterances.SaveUtterances(ctx,
		makeUtterance("000:00:10", 10, "a"),
		makeUtterance("000:01:40", 100, "b"),
		makeUtterance("000:02:30", 150, "c"),
	))

	first, err := repos.Utterances.GetUtteranceBatch(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repos.Utterances.GetUtteranceBatch(ctx, first[1].Timestamp, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[1].Timestamp, second[0].Timestamp)
}

func TestUtteranceRepository_FindSimilar(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	target := makeUtterance("102:45:17", 102*3600+45*60+17, "Contact light.")
	other := makeUtterance("000:00:10", 10, "cleared the tower")
	require.NoError(t, repos.Utterances.SaveUtterances(ctx, target, other))

	matches, err := repos.Utterances.FindSimilar(ctx, target.Vector, 0.99, 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Contact light.", matches[0].Utterance.Text)
	assert.GreaterOrEqual(t, matches[0].Score, float32(0.99))
}

func TestUtteranceRepository_FindSimilarLimit(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Utterances.SaveUtterances(ctx,
		makeUtterance("000:00:10", 10, "a"),
		makeUtterance("000:01:40", 100, "b"),
		makeUtterance("000:02:30", 150, "c"),
	))

	u, err := repos.Utterances.GetUtterance(ctx, "000:00:10")
	require.NoError(t, err)

	matches, err := repos.Utterances.FindSimilar(ctx, u.Vector, -1, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	// Ordered by score descending
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}
