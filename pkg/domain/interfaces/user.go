package interfaces

import (
	"context"

	"github.com/secmon-lab/petpal/pkg/domain/model"
)

// UserRepository defines the interface for User data access
type UserRepository interface {
	// Create stores a new user. Returns ErrAlreadyExists if the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id model.UserID) (*model.User, error)

	// GetByEmail retrieves a user by email. Returns nil, nil if no user has the email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// PetRepository defines the interface for Pet data access
type PetRepository interface {
	// Create stores a new pet
	Create(ctx context.Context, p *model.Pet) (*model.Pet, error)

	// ListByOwner returns the pets of a user ordered by creation time
	ListByOwner(ctx context.Context, owner model.UserID) ([]*model.Pet, error)
}
