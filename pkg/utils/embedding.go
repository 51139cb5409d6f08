package utils

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// NewEmbeddingClient creates either an OpenAI or a local hash-based client.
func NewEmbeddingClient(provider, apiKey, model string) (EmbeddingClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		if model == "" {
			model = string(openai.SmallEmbedding3)
		}
		return &OpenAIEmbeddingClient{
			client: openai.NewClient(apiKey),
			model:  model,
		}, nil
	case "local":
		return &HashEmbeddingClient{}, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s. Use 'openai' or 'local'", provider)
	}
}

type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  string
}

func (c *OpenAIEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("empty embedding response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

// HashEmbeddingClient is a keyless fallback that hashes words into a fixed
// vector. Good enough for dev environments without an embedding model.
type HashEmbeddingClient struct{}

const embeddingDimensions = 1536

func (c *HashEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	vector := make([]float32, embeddingDimensions)
	for _, word := range words {
		hash := hashWord(word)
		for i := 0; i < embeddingDimensions; i++ {
			influence := math.Sin(float64(hash+uint32(i))) * 0.1
			vector[i] += float32(influence)
		}
	}

	var magnitude float32
	for _, val := range vector {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))
	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}

	return pgvector.NewVector(vector), nil
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}
