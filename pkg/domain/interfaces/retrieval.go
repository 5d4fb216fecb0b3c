package interfaces

import (
	"context"

	"github.com/secmon-lab/petpal/pkg/domain/model"
)

// DocumentSearcher finds documents semantically similar to a query
type DocumentSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.Document, error)
}

// DocumentIndexer stores documents for later search
type DocumentIndexer interface {
	Add(ctx context.Context, docs ...model.Document) error
}

// TextGenerator produces a free-text answer for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
