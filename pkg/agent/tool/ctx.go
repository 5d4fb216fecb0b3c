package tool

import (
	"context"
	"fmt"
)

// UpdateFunc posts a progress message while an intent handler runs.
// Background turns forward these messages to the task stream.
type UpdateFunc func(ctx context.Context, message string)

type updateKey struct{}

// WithUpdate returns a new context that carries the given UpdateFunc.
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, updateKey{}, fn)
}

// Update reports progress through the UpdateFunc stored in ctx.
// Without an UpdateFunc (synchronous turns) the call does nothing.
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(updateKey{}).(UpdateFunc); ok && fn != nil {
		fn(ctx, message)
	}
}

// Updatef formats a progress message and reports it with Update.
func Updatef(ctx context.Context, format string, args ...any) {
	Update(ctx, fmt.Sprintf(format, args...))
}
