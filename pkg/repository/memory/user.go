package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

type userRepository struct {
	mu      sync.RWMutex
	users   map[model.UserID]*model.User
	byEmail map[string]model.UserID
}

func newUserRepository() *userRepository {
	return &userRepository{
		users:   make(map[model.UserID]*model.User),
		byEmail: make(map[string]model.UserID),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, goerr.Wrap(interfaces.ErrAlreadyExists, "email already registered", goerr.V("email", u.Email))
	}

	created := *u
	if created.ID == "" {
		created.ID = model.NewUserID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.users[created.ID] = &created
	r.byEmail[key] = created.ID

	result := created
	return &result, nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("id", id))
	}
	result := *u
	return &result, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[emailKey(email)]
	if !exists {
		return nil, nil
	}
	result := *r.users[id]
	return &result, nil
}
