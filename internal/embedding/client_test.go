package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionForKnownModels(t *testing.T) {
	cases := map[string]int{
		"jina-embeddings-v2-base-code": 768,
		"all-MiniLM-L6-v2":             384,
		"all-MiniLM-L12-v2":            384,
		"bge-small-en-v1.5":            384,
		"bge-base-en-v1.5":             768,
	}

	for model, dim := range cases {
		got, err := DimensionFor(model)
		require.NoError(t, err)
		assert.Equal(t, dim, got)
	}
}

func TestDimensionForUnknownModel(t *testing.T) {
	_, err := DimensionFor("not-a-real-model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported embedding model")
	assert.Contains(t, err.Error(), "jina-embeddings-v2-base-code")
}

func TestNewHTTPClientRejectsUnknownModel(t *testing.T) {
	_, err := NewHTTPClient("http://localhost:9000", "", "not-a-real-model")
	require.Error(t, err)
}

func TestHTTPClientEmbedBatchSingleBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jina-embeddings-v2-base-code", req.Model)

		resp := embedResponse{Data: make([]embedDatum, len(req.Input))}
		for i := range req.Input {
			resp.Data[i] = embedDatum{Embedding: make([]float32, 768), Index: i}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "", "jina-embeddings-v2-base-code")
	require.NoError(t, err)
	assert.Equal(t, 768, client.Dimension())

	vectors, err := client.EmbedBatch(context.Background(), []string{"def f(): pass", "class C: pass"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], 768)
}

func TestHTTPClientEmbedBatchSplitsAcrossBatches(t *testing.T) {
	var callCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := embedResponse{Data: make([]embedDatum, len(req.Input))}
		for i := range req.Input {
			resp.Data[i] = embedDatum{Embedding: []float32{float32(i)}, Index: i}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "", "bge-small-en-v1.5")
	require.NoError(t, err)

	texts := make([]string, defaultBatchSize+10)
	for i := range texts {
		texts[i] = "text"
	}

	vectors, err := client.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vectors, len(texts))
	assert.Equal(t, 2, callCount)
}

func TestHTTPClientEmbedBatchEmpty(t *testing.T) {
	client, err := NewHTTPClient("http://localhost:9000", "", "jina-embeddings-v2-base-code")
	require.NoError(t, err)

	vectors, err := client.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestHTTPClientEmbedBatchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "", "jina-embeddings-v2-base-code")
	require.NoError(t, err)

	_, err = client.EmbedBatch(context.Background(), []string{"x"})
	require.Error(t, err)
}
