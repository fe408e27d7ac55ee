// internal/waitlist/errors.go
package waitlist

import "errors"

// Errors reported by the remote data service.
var (
	ErrUnauthenticated = errors.New("UNAUTHENTICATED")
	ErrTransport       = errors.New("TRANSPORT_ERROR")
	ErrNotFound        = errors.New("NOT_FOUND")
)

// Errors raised by the controller itself.
var (
	ErrLoadFailure        = errors.New("LOAD_FAILURE")
	ErrUpdateFailure      = errors.New("UPDATE_FAILURE")
	ErrTornDown           = errors.New("SCREEN_TORN_DOWN")
	ErrSuperseded         = errors.New("LOAD_SUPERSEDED")
	ErrNotReady           = errors.New("WAITLIST_NOT_READY")
	ErrInvalidStatus      = errors.New("INVALID_STATUS")
	ErrUnknownApplication = errors.New("UNKNOWN_APPLICATION")
	ErrDuplicateID        = errors.New("DUPLICATE_APPLICATION_ID")
	ErrUnknownColumn      = errors.New("UNKNOWN_COLUMN")
	ErrColumnNotHideable  = errors.New("COLUMN_NOT_HIDEABLE")
	ErrColumnNotSortable  = errors.New("COLUMN_NOT_SORTABLE")
)

// loadMessage is what the operator sees instead of the table.
func loadMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "You must be signed in to view the waitlist."
	case errors.Is(err, ErrTransport):
		return "The waitlist could not be reached. Reopen the page to try again."
	default:
		return "Failed to load waitlist applications."
	}
}

// loadOutcome labels load metrics.
func loadOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
