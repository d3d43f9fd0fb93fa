// internal/session/query.go
package session

import (
	"context"
	"strings"

	"querydesk/internal/core"
)

// SubmitQuery runs a natural-language query in the current session.
//
// Blank input and submissions outside a connected session are silent no-ops.
// The previous result and query error are cleared when a submission is
// accepted. Failures come back as a *QueryError on the query channel: they
// never tear down the session and never masquerade as connection failures.
//
// In read-write mode a successful query kicks off a history refresh as a
// fire-and-forget follow-up; its outcome does not affect the query's result.
func (c *Controller) SubmitQuery(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	c.mu.Lock()
	if c.status != StatusConnected {
		c.mu.Unlock()
		return "", nil
	}
	if c.queryBusy {
		c.mu.Unlock()
		return "", ErrQueryInFlight
	}
	c.queryBusy = true
	c.queryResult = ""
	c.queryErr = ""
	epoch := c.epoch
	mode := c.mode
	c.mu.Unlock()

	response, err := c.client.Query(ctx, text)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return "", nil // session is gone; drop the late result
	}
	c.queryBusy = false
	if err != nil {
		qerr := &QueryError{Message: message(err)}
		c.queryErr = qerr.Message
		c.mu.Unlock()
		return "", qerr
	}
	c.queryResult = response
	c.mu.Unlock()

	if mode == core.ModeReadWrite {
		go func() {
			if err := c.RefreshHistory(context.Background()); err != nil {
				customLog.Warnf("History refresh after query failed: %v", err)
			}
		}()
	}
	return response, nil
}
