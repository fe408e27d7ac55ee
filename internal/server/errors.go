// internal/server/errors.go
package server

import (
	"errors"

	apperrors "puppy-admin/internal/common/errors"
	"puppy-admin/internal/screens"
	"puppy-admin/internal/session"
	"puppy-admin/internal/waitlist"
)

// screenError maps screen and controller errors to wire errors.
func (s *Server) screenError(screenID string, err error) error {
	switch {
	case errors.Is(err, screens.ErrScreenNotFound):
		return apperrors.NewScreenNotFoundError(screenID)
	case errors.Is(err, screens.ErrTooManyScreens):
		return apperrors.NewTooManyScreensError(s.maxScreens)
	case errors.Is(err, waitlist.ErrTornDown), errors.Is(err, waitlist.ErrSuperseded):
		return apperrors.NewScreenClosedError(screenID)
	case errors.Is(err, waitlist.ErrInvalidStatus):
		return apperrors.NewInvalidStatusError(err.Error())
	case errors.Is(err, waitlist.ErrUnknownApplication):
		return apperrors.NewNotFoundError("application", err.Error())
	case errors.Is(err, waitlist.ErrNotReady):
		return apperrors.NewInvalidRequestError("the waitlist is not loaded")
	case errors.Is(err, waitlist.ErrUnknownColumn),
		errors.Is(err, waitlist.ErrColumnNotHideable),
		errors.Is(err, waitlist.ErrColumnNotSortable):
		return apperrors.NewInvalidRequestError(err.Error())
	case errors.Is(err, waitlist.ErrUpdateFailure):
		return apperrors.NewUpdateFailedError("Could not update the application", err)
	default:
		return storeError("waitlist", err)
	}
}

// storeError maps repository errors.
func storeError(resource string, err error) error {
	switch {
	case errors.Is(err, waitlist.ErrUnauthenticated):
		return apperrors.NewUnauthenticatedError(err.Error())
	case errors.Is(err, waitlist.ErrTransport):
		return apperrors.NewTransportError("database", err)
	case errors.Is(err, waitlist.ErrNotFound):
		return apperrors.NewNotFoundError(resource, err.Error())
	default:
		return apperrors.NewQueryExecutionFailedError(resource, err)
	}
}

func sessionError(err error) error {
	if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
		return apperrors.NewUnauthenticatedError("session is missing or expired")
	}
	return apperrors.NewTransportError("session store", err)
}

func insertError(err error) error {
	if errors.Is(err, waitlist.ErrTransport) {
		return apperrors.NewTransportError("database", err)
	}
	return apperrors.NewDatabaseInsertFailedError(err)
}
