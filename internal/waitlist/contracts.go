// internal/waitlist/contracts.go
package waitlist

import (
	"context"

	"puppy-admin/internal/models"
)

// Reader supplies the full waitlist in remote order.
type Reader interface {
	ListApplications(ctx context.Context) ([]models.WaitlistApplication, error)
}

// StatusWriter persists one application's status.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

// Service is the remote data service a screen talks to.
type Service interface {
	Reader
	StatusWriter
}

// Notifier receives operator-facing notifications. Fire-and-forget.
type Notifier interface {
	Notify(kind models.NotificationKind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind models.NotificationKind, message string)

func (f NotifierFunc) Notify(kind models.NotificationKind, message string) {
	f(kind, message)
}

type callNotifierKey struct{}

// WithNotifier returns a context whose calls also report their notifications
// to n, next to the controller's own notifier.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, callNotifierKey{}, n)
}

func callNotifier(ctx context.Context) Notifier {
	n, _ := ctx.Value(callNotifierKey{}).(Notifier)
	return n
}

// DecisionHook runs after a status change is confirmed and reconciled.
type DecisionHook func(ctx context.Context, app models.WaitlistApplication)
