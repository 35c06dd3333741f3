package search

import (
	"context"
	"strings"

	"github.com/poiesic/apollo/core"
)

// ragPrompt is the system prompt for retrieval-augmented answers.
const ragPrompt = `You are an expert assistant specializing in the Apollo missions. Your goal is to provide accurate,
detailed, and concise answers to user inquiries by utilizing the provided Apollo mission data.
Rely solely on the information given below and avoid introducing external information.`

// enhanceWithRag asks the generator to answer the query using only the
// retrieved mission data.
func (s *Service) enhanceWithRag(ctx context.Context, query, data string) (string, error) {
	system := ragPrompt + "\n\nApollo mission data: " + data
	answer, err := s.generator.Generate(ctx, system, "User question: "+query)
	if err != nil {
		return "", err
	}
	s.logger.Info("rag answer generated", "query", query, "answerLength", len(answer))
	return answer, nil
}

// FormatUtterances renders utterances one per line as
// "{timestamp} - {speaker}: {text}", the display form used in search
// responses.
func FormatUtterances(utterances []core.Utterance) string {
	lines := make([]string, len(utterances))
	for i, u := range utterances {
		lines[i] = u.Timestamp + " - " + u.Speaker + ": " + u.Text
	}
	return strings.Join(lines, "\n")
}
