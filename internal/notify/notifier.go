package notify

import "context"

// Notifier delivers a finished report to its recipients.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
