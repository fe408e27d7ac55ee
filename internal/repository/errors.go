// internal/repository/errors.go
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"puppy-admin/internal/common/breaker"
	"puppy-admin/internal/waitlist"
)

// classify maps driver failures onto the remote-service error taxonomy.
// Anything that means "the store could not be reached" becomes ErrTransport;
// other errors pass through unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, waitlist.ErrNotFound) || errors.Is(err, waitlist.ErrTransport) {
		return err
	}
	if isTransport(err) {
		return fmt.Errorf("%w: %w", waitlist.ErrTransport, err)
	}
	return err
}

func isTransport(err error) bool {
	switch {
	case errors.Is(err, breaker.ErrOpen),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", // connection exception
			"53", // insufficient resources
			"57": // operator intervention
			return true
		}
	}
	return false
}
