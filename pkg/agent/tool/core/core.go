package core

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
)

// Keys of ActionResult.Extra set by core handlers
const (
	ExtraUserID   = "user_id"
	ExtraUsername = "username"
	ExtraPetID    = "pet_id"
	ExtraMatches  = "matches"
)

// UnknownMessage is the reply for intents nobody can handle
const UnknownMessage = "🤔 Sorry, I didn’t understand that."

// FoodQueryLimit is the number of labels retrieved for a food question
const FoodQueryLimit = 5

// New builds the core intent handlers.
// searcher and generator may be nil, in which case food_query reports that search is unavailable.
func New(repo interfaces.Repository, searcher interfaces.DocumentSearcher, generator interfaces.TextGenerator) []tool.Handler {
	return []tool.Handler{
		&registerUserTool{repo: repo},
		&createPetTool{repo: repo},
		&analyzeFoodTool{},
		&foodQueryTool{searcher: searcher, generator: generator},
	}
}

// NewRegistry builds a registry holding the core handlers and the unknown-intent handler
func NewRegistry(repo interfaces.Repository, searcher interfaces.DocumentSearcher, generator interfaces.TextGenerator) (*tool.Registry, error) {
	registry := tool.NewRegistry(&unknownTool{})
	for _, h := range New(repo, searcher, generator) {
		if err := registry.Register(h.Spec().Name, h); err != nil {
			return nil, goerr.Wrap(err, "failed to register core handler")
		}
	}
	return registry, nil
}
