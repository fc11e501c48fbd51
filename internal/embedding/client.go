// Package embedding provides the embedder collaborator: converting chunk
// text into vectors, batched for throughput, against a model catalog that
// ships as embedded data rather than a hardcoded switch.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/randalmurphy/qs/internal/qserr"
)

// Embedder converts text into vectors. Implementations are free to batch
// internally however suits their transport.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

const defaultBatchSize = 64

// HTTPClient is the default Embedder, a thin client over an
// OpenAI/Voyage-shaped embeddings endpoint: POST {input, model} -> a list
// of {embedding, index} pairs.
type HTTPClient struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

// NewHTTPClient creates a client for model served at baseURL. model must
// be one of the names in the embedded catalog (models.yaml).
func NewHTTPClient(baseURL, apiKey, model string) (*HTTPClient, error) {
	dim, err := DimensionFor(model)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		dimension: dim,
		client:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []embedDatum `json:"data"`
}

type embedDatum struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

func (c *HTTPClient) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Input: texts, Model: c.model})
	if err != nil {
		return nil, qserr.Wrap(qserr.Serialization, err, "marshal embedding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, qserr.Wrap(qserr.Embedding, err, "build embedding request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, qserr.Wrap(qserr.Embedding, err, "call embedding endpoint")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, qserr.Wrap(qserr.Embedding, err, "read embedding response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, qserr.New(qserr.Embedding, "embedding endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, qserr.Wrap(qserr.Serialization, err, "parse embedding response")
	}

	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			continue
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// EmbedBatch embeds all texts, splitting into request-sized batches.
func (c *HTTPClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var all [][]float32
	for i := 0; i < len(texts); i += defaultBatchSize {
		end := i + defaultBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := c.embed(ctx, texts[i:end])
		if err != nil {
			return nil, qserr.Wrap(qserr.Embedding, err, "batch %d-%d", i, end)
		}
		all = append(all, vectors...)
	}
	return all, nil
}

// Dimension returns the configured model's vector width.
func (c *HTTPClient) Dimension() int {
	return c.dimension
}

var _ Embedder = (*HTTPClient)(nil)
