// internal/session/errors.go
package session

import (
	"errors"
	"sort"
	"strings"

	"querydesk/internal/api"
)

// ErrConnectInFlight rejects a second connect attempt while one is
// outstanding.
var ErrConnectInFlight = errors.New("a connect attempt is already in progress")

// ErrQueryInFlight rejects a query submitted while a previous one is still
// running.
var ErrQueryInFlight = errors.New("a query is already in progress")

// ValidationError reports required credential fields that are blank. It is
// raised entirely client-side, before any network call.
type ValidationError struct {
	Missing []string // field names, sorted
}

func (e *ValidationError) Error() string {
	return "missing required connection fields: " + strings.Join(e.Missing, ", ")
}

func newValidationError(result map[string]bool) *ValidationError {
	var missing []string
	for field, miss := range result {
		if miss {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &ValidationError{Missing: missing}
}

// ConnectionError is a rejected or failed connect attempt. It rides its own
// channel, distinct from query errors, and leaves the session disconnected.
type ConnectionError struct {
	Message string
}

func (e *ConnectionError) Error() string { return e.Message }

// QueryError is a rejected or failed query. The session stays connected.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string { return e.Message }

// LedgerError is a failed revert. Entry state is left untouched.
type LedgerError struct {
	Message string
}

func (e *LedgerError) Error() string { return e.Message }

// message extracts the user-facing text from a backend call failure. An
// *api.Error already carries either the backend message or the generic
// transport message; anything else gets the transport message.
func message(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return api.TransportMessage
}
