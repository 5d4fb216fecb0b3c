package interfaces

import (
	"context"

	"github.com/secmon-lab/petpal/pkg/domain/model"
)

// IntentParser extracts intents from free text. It may return an empty list.
type IntentParser interface {
	Parse(ctx context.Context, text string) ([]model.IntentRequest, error)
}

// FallbackParser always returns exactly one intent, defaulting to unknown.
type FallbackParser interface {
	Parse(text string) model.IntentRequest
}
