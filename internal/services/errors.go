package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"storefront/internal/apperr"
)

// storeErr maps a repository error onto the public error codes. Lost
// connections become CodeDependency so checkout can tell transport failures
// from rejected requests.
func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.CodeNotFound, err, what+" not found")
	}
	if isConnErr(err) {
		return apperr.Wrap(apperr.CodeDependency, err, what+" store unavailable")
	}
	return apperr.Wrap(apperr.CodeInternal, err, what+" store failed")
}

func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
