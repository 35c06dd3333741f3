package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/poiesic/apollo/ai"
)

// ImageEmbedder implements ai.ImageEmbedder against an OpenAI-compatible
// embeddings endpoint serving a CLIP-style model. Images are submitted as
// base64 in the input field, which is what common CLIP servers (infinity,
// clip-as-service) accept.
type ImageEmbedder struct {
	baseURL    string
	model      string
	client     *http.Client
	maxRetries int
	logger     *slog.Logger
}

// newImageEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newImageEmbedder(config *ai.Config) *ImageEmbedder {
	return &ImageEmbedder{
		baseURL:    config.ImageHost,
		model:      config.ImageModel,
		client:     &http.Client{Timeout: 60 * time.Second},
		maxRetries: 5,
		logger:     slog.Default().With("component", "openai-image-embedder"),
	}
}

// NewImageEmbedder creates a new image embedder using the provided configuration.
//
// Returns ai.ImageEmbedder interface to enforce abstraction.
func NewImageEmbedder(config *ai.Config) (ai.ImageEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.ImageHost == "" {
		return nil, fmt.Errorf("ai config: ImageHost is required for image embedding")
	}
	return newImageEmbedder(config), nil
}

type imageEmbedRequest struct {
	Input    []string `json:"input"`
	Model    string   `json:"model"`
	Modality string   `json:"modality"`
}

type imageEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedImage generates a vector embedding for a single image.
// Transient failures (429 and 5xx responses) are retried with backoff,
// honoring Retry-After when the server provides one.
func (e *ImageEmbedder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	e.logger.Debug("generating embedding for image", "bytes", len(image))

	body := imageEmbedRequest{
		Input:    []string{base64.StdEncoding.EncodeToString(image)},
		Model:    e.model,
		Modality: "image",
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := e.baseURL + "/embeddings"
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer none")

		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < e.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("image embeddings failed: %s", resp.Status)
			if attempt < e.maxRetries {
				time.Sleep(delay)
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("image embeddings failed: %s", resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}

		var parsed imageEmbedResponse
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return nil, fmt.Errorf("image embeddings: malformed response: %w", err)
		}
		if len(parsed.Data) == 0 {
			return nil, fmt.Errorf("image embeddings: empty response")
		}
		return parsed.Data[0].Embedding, nil
	}

	return nil, lastErr
}

// retryDelay returns an exponential backoff delay for the given attempt.
func retryDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * 500 * time.Millisecond
}
