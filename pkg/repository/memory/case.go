package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

type caseRepository struct {
	mu    sync.RWMutex
	cases map[model.CaseID]*model.ConversationCase
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases: make(map[model.CaseID]*model.ConversationCase),
	}
}

func copyIntent(req model.IntentRequest) model.IntentRequest {
	if p, ok := req.Params.(model.UnknownParams); ok && p.Extra != nil {
		p.Extra = maps.Clone(p.Extra)
		req.Params = p
	}
	return req
}

func copyIntents(reqs []model.IntentRequest) []model.IntentRequest {
	if reqs == nil {
		return nil
	}
	out := make([]model.IntentRequest, len(reqs))
	for i, req := range reqs {
		out[i] = copyIntent(req)
	}
	return out
}

// copyCase creates a deep copy of a case
func copyCase(c *model.ConversationCase) *model.ConversationCase {
	copied := *c
	copied.History = slices.Clone(c.History)
	copied.ParsedIntents = copyIntents(c.ParsedIntents)
	copied.PendingIntents = copyIntents(c.PendingIntents)
	copied.InternalLog = slices.Clone(c.InternalLog)
	copied.CustomerNotes = slices.Clone(c.CustomerNotes)
	copied.Outcomes = slices.Clone(c.Outcomes)
	if c.SlotFill != nil {
		state := *c.SlotFill
		copied.SlotFill = &state
	}
	return &copied
}

func (r *caseRepository) Create(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error) {
	if c.ID == "" {
		return nil, goerr.New("case ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cases[c.ID]; exists {
		return nil, goerr.Wrap(interfaces.ErrAlreadyExists, "case already exists", goerr.V("id", c.ID))
	}

	now := time.Now().UTC()
	created := copyCase(c)
	created.Version = 1
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.cases[created.ID] = created
	return copyCase(created), nil
}

func (r *caseRepository) Get(ctx context.Context, id model.CaseID) (*model.ConversationCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.cases[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
	}
	return copyCase(c), nil
}

func (r *caseRepository) Save(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.cases[c.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", c.ID))
	}
	if stored.Version != c.Version {
		return nil, goerr.Wrap(interfaces.ErrConflict, "case was modified concurrently",
			goerr.V("id", c.ID),
			goerr.V("expected", c.Version),
			goerr.V("actual", stored.Version))
	}

	saved := copyCase(c)
	saved.Version = stored.Version + 1
	saved.CreatedAt = stored.CreatedAt
	saved.UpdatedAt = time.Now().UTC()

	r.cases[saved.ID] = saved
	return copyCase(saved), nil
}

// latest returns the most recently updated non-terminal case matching fn
func (r *caseRepository) latest(fn func(c *model.ConversationCase) bool) *model.ConversationCase {
	var found *model.ConversationCase
	for _, c := range r.cases {
		if c.Status.IsTerminal() || !fn(c) {
			continue
		}
		if found == nil || c.UpdatedAt.After(found.UpdatedAt) {
			found = c
		}
	}
	if found == nil {
		return nil
	}
	return copyCase(found)
}

func (r *caseRepository) LoadActive(ctx context.Context, sessionKey string) (*model.ConversationCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.latest(func(c *model.ConversationCase) bool {
		return c.SessionKey == sessionKey
	}), nil
}

func (r *caseRepository) FindPending(ctx context.Context, owner model.UserID) (*model.ConversationCase, error) {
	if owner == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.latest(func(c *model.ConversationCase) bool {
		return c.Owner == owner && c.HasPending()
	}), nil
}
