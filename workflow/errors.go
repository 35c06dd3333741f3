package workflow

import "errors"

var (
	// ErrTOCRepositoryRequired is returned when a TOC repository is not provided.
	ErrTOCRepositoryRequired = errors.New("TOC repository required")

	// ErrUtteranceRepositoryRequired is returned when an utterance repository is not provided.
	ErrUtteranceRepositoryRequired = errors.New("utterance repository required")

	// ErrSummaryRepositoryRequired is returned when a summary repository is not provided.
	ErrSummaryRepositoryRequired = errors.New("summary repository required")

	// ErrQuestionRepositoryRequired is returned when a question repository is not provided.
	ErrQuestionRepositoryRequired = errors.New("question repository required")

	// ErrNoiseRepositoryRequired is returned when a noise repository is not provided.
	ErrNoiseRepositoryRequired = errors.New("noise repository required")

	// ErrGeneratorRequired is returned when a text generator is not provided.
	ErrGeneratorRequired = errors.New("text generator required")
)
