package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/apollo/core"
)

func TestSummaryRepository_SaveEmbedsAndFinds(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	s := &core.Summary{
		Timestamp:   "102;45;00",
		GroupedText: "LMP: Contact light.",
		Summary:     "The crew lands on the lunar surface.",
	}
	require.NoError(t, repos.Summaries.SaveSummaries(ctx, s))
	assert.NotEmpty(t, s.Vector)

	exists, err := repos.Summaries.Exists(ctx, "102;45;00")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repos.Summaries.Exists(ctx, "999;00;00")
	require.NoError(t, err)
	assert.False(t, exists)

	matches, err := repos.Summaries.FindSimilar(ctx, s.Vector, 0.99, 3)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, s.Summary, matches[0].Summary.Summary)
}

func TestQuestionRepository_SaveEmbedsAndFinds(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	q := &core.Question{
		Timestamp:   core.QuestionID("102;45;00", 0),
		GroupedText: "LMP: Contact light.",
		Question:    "Who reported contact light?",
	}
	require.NoError(t, repos.Questions.SaveQuestions(ctx, q))
	assert.NotEmpty(t, q.Vector)

	got, err := repos.Questions.GetQuestion(ctx, "102;45;00-0")
	require.NoError(t, err)
	assert.Equal(t, "Who reported contact light?", got.Question)

	exists, err := repos.Questions.Exists(ctx, "102;45;00-0")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPhotographRepository_DualVectorSpaces(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	p := &core.Photograph{
		Timestamp:   "109;24;15",
		Name:        "AS11-40-5903",
		Description: "Aldrin on the lunar surface",
		ImageVector: []float32{1, 0, 0},
	}
	require.NoError(t, repos.Photographs.SavePhotographs(ctx, p))
	assert.NotEmpty(t, p.DescriptionVector)

	byDesc, err := repos.Photographs.FindSimilarByDescription(ctx, p.DescriptionVector, 0.99, 3)
	require.NoError(t, err)
	require.NotEmpty(t, byDesc)
	assert.Equal(t, "AS11-40-5903", byDesc[0].Photograph.Name)

	byImage, err := repos.Photographs.FindSimilarByImage(ctx, []float32{1, 0, 0}, 0.99, 3)
	require.NoError(t, err)
	require.NotEmpty(t, byImage)
	assert.Equal(t, "AS11-40-5903", byImage[0].Photograph.Name)

	// An image-space probe orthogonal to the stored image vector misses
	byImage, err = repos.Photographs.FindSimilarByImage(ctx, []float32{0, 1, 0}, 0.5, 3)
	require.NoError(t, err)
	assert.Empty(t, byImage)
}
