package interfaces

import (
	"context"

	"github.com/secmon-lab/petpal/pkg/domain/model"
)

// CaseRepository defines the interface for ConversationCase data access
type CaseRepository interface {
	// Create stores a new case. The case ID must be set by the caller and Version is reset to 1.
	Create(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, id model.CaseID) (*model.ConversationCase, error)

	// Save replaces a case when c.Version matches the stored version, then increments it.
	// Returns ErrConflict if another turn saved the case in between.
	Save(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error)

	// LoadActive returns the most recently updated non-terminal case of a session.
	// Returns nil, nil if the session has no active case.
	LoadActive(ctx context.Context, sessionKey string) (*model.ConversationCase, error)

	// FindPending returns the most recently updated non-terminal case of an owner
	// that still has pending intents. Returns nil, nil if there is none.
	FindPending(ctx context.Context, owner model.UserID) (*model.ConversationCase, error)
}
