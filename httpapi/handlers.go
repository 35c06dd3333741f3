// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/apollo/search"
	"github.com/poiesic/apollo/storage"
)

// SearchRequest is the body of the text search endpoints.
type SearchRequest struct {
	Query               string `json:"query"`
	EnableSemanticCache bool   `json:"enableSemanticCache"`
	EnableRag           bool   `json:"enableRag"`
}

// ImageSearchRequest is the body of the search-by-image endpoint. Either
// an inline base64 payload or a server-side file path must be given.
type ImageSearchRequest struct {
	ImageBase64 string `json:"imageBase64"`
	ImagePath   string `json:"imagePath"`
}

// SearchHandler exposes the search service over HTTP.
type SearchHandler struct {
	service *search.Service
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchUtterances handles POST /utterance/search.
func (h *SearchHandler) SearchUtterances(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.service.SearchUtterances(c.Request.Context(), req.Query)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	matched := make([]gin.H, len(result.Matches))
	for i, m := range result.Matches {
		matched[i] = gin.H{
			"timestamp": m.Utterance.Timestamp,
			"speaker":   m.Utterance.Speaker,
			"text":      m.Utterance.Text,
			"score":     strconv.FormatFloat(float64(m.Score), 'f', -1, 32),
		}
	}

	RespondOK(c, gin.H{
		"query":         result.Query,
		"matchedTexts":  matched,
		"embeddingTime": formatDuration(result.EmbeddingTime),
		"searchTime":    formatDuration(result.SearchTime),
	})
}

// SearchSummaries handles POST /summary/search.
func (h *SearchHandler) SearchSummaries(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.service.SearchSummaries(c.Request.Context(), req.Query, search.Options{
		SemanticCache: req.EnableSemanticCache,
		Rag:           req.EnableRag,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	if result.CacheHit {
		RespondOK(c, gin.H{
			"query":            result.Query,
			"ragAnswer":        result.RagAnswer,
			"cachedQuery":      result.CachedQuery,
			"cachedScore":      strconv.FormatFloat(float64(result.CachedScore), 'f', -1, 32),
			"matchedSummaries": "",
			"embeddingTime":    formatDuration(result.EmbeddingTime),
			"cacheSearchTime":  formatDuration(result.CacheSearchTime),
		})
		return
	}

	matched := make([]gin.H, len(result.Matches))
	for i, m := range result.Matches {
		matched[i] = gin.H{
			"summary":    m.Summary.Summary,
			"utterances": search.FormatUtterances(m.Summary.Utterances),
			"score":      strconv.FormatFloat(float64(m.Score), 'f', -1, 32),
		}
	}

	payload := gin.H{
		"query":            result.Query,
		"matchedSummaries": matched,
		"embeddingTime":    formatDuration(result.EmbeddingTime),
		"searchTime":       formatDuration(result.SearchTime),
	}
	if req.EnableRag {
		payload["ragAnswer"] = result.RagAnswer
		payload["ragTime"] = formatDuration(result.RagTime)
	}
	RespondOK(c, payload)
}

// SearchQuestions handles POST /question/search/.
func (h *SearchHandler) SearchQuestions(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.service.SearchQuestions(c.Request.Context(), req.Query, search.Options{
		SemanticCache: req.EnableSemanticCache,
		Rag:           req.EnableRag,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	if result.CacheHit {
		RespondOK(c, gin.H{
			"query":            result.Query,
			"ragAnswer":        result.RagAnswer,
			"cachedQuery":      result.CachedQuery,
			"cachedScore":      strconv.FormatFloat(float64(result.CachedScore), 'f', -1, 32),
			"matchedQuestions": "",
			"embeddingTime":    formatDuration(result.EmbeddingTime),
			"cacheSearchTime":  formatDuration(result.CacheSearchTime),
		})
		return
	}

	matched := make([]gin.H, len(result.Matches))
	for i, m := range result.Matches {
		matched[i] = gin.H{
			"question":   m.Question.Question,
			"utterances": search.FormatUtterances(m.Question.Utterances),
			"score":      strconv.FormatFloat(float64(m.Score), 'f', -1, 32),
		}
	}

	payload := gin.H{
		"query":            result.Query,
		"matchedQuestions": matched,
		"embeddingTime":    formatDuration(result.EmbeddingTime),
		"searchTime":       formatDuration(result.SearchTime),
	}
	if req.EnableRag {
		payload["ragAnswer"] = result.RagAnswer
		payload["ragTime"] = formatDuration(result.RagTime)
	}
	RespondOK(c, payload)
}

// SearchImagesByDescription handles POST /image/search/by-description.
func (h *SearchHandler) SearchImagesByDescription(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.service.SearchImagesByDescription(c.Request.Context(), req.Query)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"query":              req.Query,
		"matchedPhotographs": photographPayload(result.Matches),
		"embeddingTime":      formatDuration(result.EmbeddingTime),
		"searchTime":         formatDuration(result.SearchTime),
	})
}

// SearchImagesByImage handles POST /image/search/by-image.
func (h *SearchHandler) SearchImagesByImage(c *gin.Context) {
	var req ImageSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	image, err := loadQueryImage(&req)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}

	result, err := h.service.SearchImagesByImage(c.Request.Context(), image)
	if err != nil {
		if errors.Is(err, search.ErrImageSearchDisabled) {
			RespondError(c, http.StatusServiceUnavailable, "image_search_disabled", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"matchedPhotographs": photographPayload(result.Matches),
		"embeddingTime":      formatDuration(result.EmbeddingTime),
		"searchTime":         formatDuration(result.SearchTime),
	})
}

func photographPayload(matches []*storage.PhotographMatch) []gin.H {
	payload := make([]gin.H, len(matches))
	for i, m := range matches {
		payload[i] = gin.H{
			"timestamp":   m.Photograph.Timestamp,
			"name":        m.Photograph.Name,
			"description": m.Photograph.Description,
			"externalUrl": m.Photograph.ExternalURL,
			"imagePath":   m.Photograph.ImagePath,
			"score":       strconv.FormatFloat(float64(m.Score), 'f', -1, 32),
		}
	}
	return payload
}

// loadQueryImage resolves the query image from the inline base64 payload
// or, failing that, from a server-side file path.
func loadQueryImage(req *ImageSearchRequest) ([]byte, error) {
	if req.ImageBase64 != "" {
		return base64.StdEncoding.DecodeString(req.ImageBase64)
	}
	if req.ImagePath != "" {
		return os.ReadFile(req.ImagePath)
	}
	return nil, errors.New("imageBase64 or imagePath required")
}
