package workflow

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/apollo/ai/mock"
	"github.com/poiesic/apollo/loader"
	badgerstore "github.com/poiesic/apollo/storage/badger"
)

func writeRowFile(t *testing.T, rows [][]string) string {
	t.Helper()
	data, err := json.Marshal(rows)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestRunner(t *testing.T, repos *badgerstore.Repositories, generator *mock.MockGenerator) *Runner {
	t.Helper()

	grouper, err := NewGrouper(repos.TOC, repos.Utterances, repos.Noise, false)
	require.NoError(t, err)

	summarization, err := NewSummarizationWorkflow(repos.TOC, repos.Summaries, generator, false, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(summarization.Release)

	questionGeneration, err := NewQuestionGenerationWorkflow(repos.TOC, repos.Questions, generator, false, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(questionGeneration.Release)

	return NewRunner(
		repos.Utterances,
		loader.NewUtteranceLoader(repos.Utterances, repos.Noise),
		loader.NewTOCLoader(repos.TOC),
		loader.NewPhotographLoader(repos.Photographs, t.TempDir()),
		grouper,
		summarization,
		questionGeneration,
	)
}

func TestRunnerEndToEnd(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	paths := DataPaths{
		Utterances: writeRowFile(t, [][]string{
			{"0000010", "CDR", "Roll program.", "10"},
			{"0000140", "CC", "Tower clear.", "4"},
		}),
		TOC: writeRowFile(t, [][]string{
			{"000:00:00", "Liftoff", "Launch from pad 39A."},
		}),
		Photographs: writeRowFile(t, [][]string{
			{"367906", "AS11-40-5903", "", "https://example.org/5903", "On the lunar surface."},
		}),
	}

	generator := mock.NewMockGenerator()
	runner := newTestRunner(t, repos, generator)

	require.NoError(t, runner.Run(ctx, paths))

	count, err := repos.Utterances.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entry, err := repos.TOC.GetEntry(ctx, "000;00;00")
	require.NoError(t, err)
	assert.Equal(t, "CDR: Roll program.\nCC: Tower clear.", entry.GroupedText)
	assert.Equal(t, "mock completion", entry.Summary)
	assert.Equal(t, []string{"mock completion"}, entry.Questions)

	summaries, err := repos.Summaries.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summaries)

	questions, err := repos.Questions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, questions)

	photographs, err := repos.Photographs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, photographs)
}

func TestRunnerSkipsWhenDataLoaded(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveUtterances(t, repos, utteranceAt(10, "000:00:10", "CDR", "Already here."))

	generator := mock.NewMockGenerator()
	runner := newTestRunner(t, repos, generator)

	// Paths deliberately don't exist: the runner must not touch them.
	require.NoError(t, runner.Run(ctx, DataPaths{
		Utterances:  "/nonexistent/utterances.json",
		TOC:         "/nonexistent/toc.json",
		Photographs: "/nonexistent/photographs.json",
	}))
	assert.Zero(t, generator.CallCount())
}

func TestRunnerPropagatesLoadErrors(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	generator := mock.NewMockGenerator()
	runner := newTestRunner(t, repos, generator)

	err := runner.Run(ctx, DataPaths{
		Utterances:  "/nonexistent/utterances.json",
		TOC:         "/nonexistent/toc.json",
		Photographs: "/nonexistent/photographs.json",
	})
	assert.Error(t, err)
}
