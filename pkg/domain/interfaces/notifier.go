package interfaces

import "context"

// Notifier delivers operator-facing alerts
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
