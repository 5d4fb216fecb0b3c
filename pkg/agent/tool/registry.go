package tool

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// Spec describes an intent handler
type Spec struct {
	Name        types.IntentName
	Description string
	// Params lists the parameter names the handler understands, for parser prompts
	Params []string
	// RequiresIdentity is false only for handlers that anonymous callers may run
	RequiresIdentity bool
}

// Handler executes one business action for an intent.
// A returned error is an unexpected fault; a business refusal is an ActionResult with Success=false.
type Handler interface {
	Spec() Spec
	Run(ctx context.Context, caller model.UserID, req model.IntentRequest) (*model.ActionResult, error)
}

// Registry maps intent names to handlers. Unregistered names resolve to the unknown handler.
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.IntentName]Handler
	unknown  Handler
}

// NewRegistry creates a Registry with the handler used for unrecognized intents
func NewRegistry(unknown Handler) *Registry {
	return &Registry{
		handlers: make(map[types.IntentName]Handler),
		unknown:  unknown,
	}
}

// Register binds a handler to an intent name, replacing any previous binding
func (r *Registry) Register(name types.IntentName, h Handler) error {
	if name == "" {
		return goerr.New("intent name is required")
	}
	if h == nil {
		return goerr.New("handler is required", goerr.V("intent", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	return nil
}

// Resolve returns the handler for name, or the unknown handler
func (r *Registry) Resolve(name types.IntentName) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.handlers[name]; ok {
		return h
	}
	return r.unknown
}

// Specs returns the specs of registered handlers sorted by name
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(r.handlers))
	for _, h := range r.handlers {
		specs = append(specs, h.Spec())
	}
	slices.SortFunc(specs, func(a, b Spec) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return specs
}
