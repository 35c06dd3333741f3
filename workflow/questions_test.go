package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/apollo/ai/mock"
)

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "one per line",
			response: "What was the first meal on the Moon?\nWho spoke first after landing?",
			want:     []string{"What was the first meal on the Moon?", "Who spoke first after landing?"},
		},
		{
			name:     "blank lines and trailing newline",
			response: "Q1\n\nQ2\n",
			want:     []string{"Q1", "Q2"},
		},
		{
			name:     "surrounding whitespace",
			response: "  Q1  \n\t\nQ2",
			want:     []string{"Q1", "Q2"},
		},
		{
			name:     "empty response",
			response: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseQuestions(tt.response))
		})
	}
}

func TestQuestionGenerationWorkflow(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveEntries(t, repos, groupedEntry(256020, "071;07;00", "CDR: In work."))

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "What was in work?\n\nWho said it?\n", nil
	}

	w, err := NewQuestionGenerationWorkflow(repos.TOC, repos.Questions, generator, false, WithPoolSize(2))
	require.NoError(t, err)
	defer w.Release()

	require.NoError(t, w.Run(ctx))

	entry, err := repos.TOC.GetEntry(ctx, "071;07;00")
	require.NoError(t, err)
	assert.Equal(t, []string{"What was in work?", "Who said it?"}, entry.Questions)

	first, err := repos.Questions.GetQuestion(ctx, "071;07;00-0")
	require.NoError(t, err)
	assert.Equal(t, "What was in work?", first.Question)
	assert.Equal(t, "CDR: In work.", first.GroupedText)
	assert.NotEmpty(t, first.Vector)

	second, err := repos.Questions.GetQuestion(ctx, "071;07;00-1")
	require.NoError(t, err)
	assert.Equal(t, "Who said it?", second.Question)

	count, err := repos.Questions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQuestionGenerationWorkflowRerunDoesNotDuplicate(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveEntries(t, repos,
		groupedEntry(0, "000;00;00", "CDR: First."),
		groupedEntry(100, "000;01;40", "CC: Second."),
	)

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "Q1\nQ2", nil
	}

	w, err := NewQuestionGenerationWorkflow(repos.TOC, repos.Questions, generator, false, WithPoolSize(1))
	require.NoError(t, err)
	defer w.Release()

	require.NoError(t, w.Run(ctx))
	firstCalls := generator.CallCount()
	require.NoError(t, w.Run(ctx))

	// Rerun generates nothing new and keeps one record per question.
	assert.Equal(t, firstCalls, generator.CallCount())
	count, err := repos.Questions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestQuestionGenerationWorkflowOverwriteRefreshesRecords(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveEntries(t, repos, groupedEntry(256020, "071;07;00", "CDR: In work."))

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "Original question?", nil
	}

	w, err := NewQuestionGenerationWorkflow(repos.TOC, repos.Questions, generator, false, WithPoolSize(1))
	require.NoError(t, err)
	defer w.Release()
	require.NoError(t, w.Run(ctx))

	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "Revised question?", nil
	}

	ow, err := NewQuestionGenerationWorkflow(repos.TOC, repos.Questions, generator, true, WithPoolSize(1))
	require.NoError(t, err)
	defer ow.Release()
	require.NoError(t, ow.Run(ctx))

	// Overwrite rewrites the question record under the same key.
	record, err := repos.Questions.GetQuestion(ctx, "071;07;00-0")
	require.NoError(t, err)
	assert.Equal(t, "Revised question?", record.Question)
	assert.NotEmpty(t, record.Vector)

	count, err := repos.Questions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQuestionGenerationWorkflowPartialFailure(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	saveEntries(t, repos,
		groupedEntry(0, "000;00;00", "CDR: Healthy entry."),
		groupedEntry(100, "000;01;40", "CC: Doomed entry."),
	)

	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		if strings.Contains(user, "Doomed") {
			return "", errors.New("model unavailable")
		}
		return "Q1", nil
	}

	w, err := NewQuestionGenerationWorkflow(repos.TOC, repos.Questions, generator, false, WithPoolSize(1))
	require.NoError(t, err)
	defer w.Release()

	require.NoError(t, w.Run(ctx))

	count, err := repos.Questions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A rerun only touches the entry that failed.
	generator.GenerateFunc = func(ctx context.Context, system, user string) (string, error) {
		return "Recovered question?", nil
	}
	require.NoError(t, w.Run(ctx))

	count, err = repos.Questions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	recovered, err := repos.Questions.GetQuestion(ctx, "000;01;40-0")
	require.NoError(t, err)
	assert.Equal(t, "Recovered question?", recovered.Question)
}

func TestNewQuestionGenerationWorkflowValidation(t *testing.T) {
	repos := setupRepositories(t)

	_, err := NewQuestionGenerationWorkflow(nil, repos.Questions, mock.NewMockGenerator(), false)
	assert.ErrorIs(t, err, ErrTOCRepositoryRequired)

	_, err = NewQuestionGenerationWorkflow(repos.TOC, nil, mock.NewMockGenerator(), false)
	assert.ErrorIs(t, err, ErrQuestionRepositoryRequired)

	_, err = NewQuestionGenerationWorkflow(repos.TOC, repos.Questions, nil, false)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}
