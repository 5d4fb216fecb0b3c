package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/petpal/pkg/service/foodlabel"
	"github.com/urfave/cli/v3"
)

// VectorStore holds flags for the food label vector store
type VectorStore struct {
	dir       string
	dimension int
}

func (x *VectorStore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vector-dir",
			Usage:       "Directory persisting indexed food labels (in-memory when empty)",
			Category:    "Retrieval",
			Sources:     cli.EnvVars("PETPAL_VECTOR_DIR"),
			Destination: &x.dir,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Embedding vector size requested from the LLM",
			Category:    "Retrieval",
			Value:       foodlabel.EmbeddingDimension,
			Sources:     cli.EnvVars("PETPAL_EMBEDDING_DIMENSION"),
			Destination: &x.dimension,
		},
	}
}

// Configure opens the label store backed by the LLM's embeddings. It returns
// nil without error when no LLM is available.
func (x *VectorStore) Configure(llmClient gollem.LLMClient) (*foodlabel.Store, error) {
	if llmClient == nil {
		return nil, nil
	}

	dimension := x.dimension
	if dimension <= 0 {
		dimension = foodlabel.EmbeddingDimension
	}

	store, err := foodlabel.NewStore(x.dir, foodlabel.NewEmbeddingFunc(llmClient, dimension))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open food label store", goerr.V("dir", x.dir))
	}
	return store, nil
}
