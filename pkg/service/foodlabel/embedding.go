package foodlabel

import (
	"context"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	chromem "github.com/philippgille/chromem-go"
)

// EmbeddingDimension is the vector size requested from the LLM
const EmbeddingDimension = 256

// NewEmbeddingFunc adapts a gollem client to chromem. Vectors are L2-normalized.
func NewEmbeddingFunc(llmClient gollem.LLMClient, dimension int) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		embeddings, err := llmClient.GenerateEmbedding(ctx, dimension, []string{text})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate embedding")
		}
		if len(embeddings) == 0 || len(embeddings[0]) == 0 {
			return nil, goerr.New("no embedding returned")
		}
		return normalize(embeddings[0]), nil
	}
}

func normalize(v []float64) []float32 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)

	out := make([]float32, len(v))
	for i, x := range v {
		if norm == 0 {
			out[i] = float32(x)
			continue
		}
		out[i] = float32(x / norm)
	}
	return out
}
