package foodlabel

import (
	"context"
	"os"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	chromem "github.com/philippgille/chromem-go"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

// CollectionName is the chromem collection holding label documents
const CollectionName = "food_labels"

// Store indexes label documents in chromem and searches them by similarity
type Store struct {
	mu  sync.RWMutex
	col *chromem.Collection
}

var (
	_ interfaces.DocumentSearcher = &Store{}
	_ interfaces.DocumentIndexer  = &Store{}
)

// NewStore opens the label store. An empty dir keeps documents in memory only.
func NewStore(dir string, embedFn chromem.EmbeddingFunc) (*Store, error) {
	if embedFn == nil {
		return nil, goerr.New("embedding function is required")
	}

	var db *chromem.DB
	if dir == "" {
		db = chromem.NewDB()
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, goerr.Wrap(err, "failed to create vector store directory", goerr.V("dir", dir))
		}
		persistent, err := chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open vector store", goerr.V("dir", dir))
		}
		db = persistent
	}

	col := db.GetCollection(CollectionName, embedFn)
	if col == nil {
		created, err := db.CreateCollection(CollectionName, nil, embedFn)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create vector collection")
		}
		col = created
	}

	return &Store{col: col}, nil
}

// Add indexes documents. Documents with an existing ID are replaced.
func (s *Store) Add(ctx context.Context, docs ...model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range docs {
		if d.ID == "" {
			return goerr.New("document ID is required")
		}
		if err := s.col.AddDocument(ctx, chromem.Document{
			ID:       d.ID,
			Content:  d.Content,
			Metadata: d.Metadata,
		}); err != nil {
			return goerr.Wrap(err, "failed to add document", goerr.V("id", d.ID))
		}
	}
	return nil
}

// Count returns the number of indexed documents
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col.Count()
}

// Search returns up to limit documents most similar to query, best first.
// An empty store yields no documents and no error.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.col.Count()
	if count == 0 || limit <= 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.col.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query vector store", goerr.V("limit", limit))
	}

	docs := make([]model.Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, model.Document{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		})
	}
	return docs, nil
}
