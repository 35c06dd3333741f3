// Package httpapi exposes the mission archive search service over HTTP:
// utterance, summary, question and photograph search endpoints with
// per-stage timing annotations in every response.
package httpapi
