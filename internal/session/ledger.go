// internal/session/ledger.go
package session

import (
	"context"
	"time"

	"querydesk/internal/core"
)

// RefreshHistory fetches the session's change log and replaces the local list
// wholesale, with no incremental merge, so racing refreshes settle on
// whichever response lands last.
//
// Outside a connected session this is a no-op, not an error; it guards
// against refreshes racing a teardown. Fetch failures leave the list
// unchanged and are reported to the caller for logging only.
//
// One exception to the wholesale rule: an entry the client already saw as
// reverted stays reverted, whatever the response claims.
func (c *Controller) RefreshHistory(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusConnected {
		c.mu.Unlock()
		return nil
	}
	epoch := c.epoch
	c.refreshing++
	c.mu.Unlock()

	fetched, err := c.client.History(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil // superseded; teardown already reset the counters
	}
	if c.refreshing > 0 {
		c.refreshing--
	}
	if err != nil {
		return err
	}

	// Carry the flag by entry identity, not list position, so it survives
	// the backend reordering or dropping entries between refreshes.
	reverted := make(map[string]bool, len(c.entries))
	for _, e := range c.entries {
		if e.Reverted {
			reverted[entryKey(e.Description, e.Timestamp)] = true
		}
	}

	entries := make([]Entry, len(fetched))
	for i, h := range fetched {
		entries[i] = Entry{
			Index:       i,
			Description: h.Description,
			Timestamp:   h.Timestamp,
			Reverted:    h.Reverted || reverted[entryKey(h.Description, h.Timestamp)],
		}
	}
	c.entries = entries
	return nil
}

// entryKey identifies a ledger entry across refreshes. The backend has no
// stable id on the wire, so description plus timestamp stands in for one.
func entryKey(description string, ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano) + " " + description
}

// Revert asks the backend to undo the ledger entry at index, then refreshes
// so the reverted flag and any renumbering come from the authoritative list
// rather than an optimistic local mutation.
//
// The call is a silent no-op when the session is read-only (the ledger is
// unreachable by design there), when the entry is already reverted or out of
// range, or while another revert or refresh is in flight. Failures come back
// as a *LedgerError and leave the entry untouched.
func (c *Controller) Revert(ctx context.Context, index int) error {
	c.mu.Lock()
	if c.status != StatusConnected || c.mode != core.ModeReadWrite {
		c.mu.Unlock()
		return nil
	}
	if index < 0 || index >= len(c.entries) || c.entries[index].Reverted {
		c.mu.Unlock()
		return nil
	}
	if c.reverting || c.refreshing > 0 {
		c.mu.Unlock()
		return nil
	}
	c.reverting = true
	c.ledgerErr = ""
	epoch := c.epoch
	c.mu.Unlock()

	err := c.client.Revert(ctx, index)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return nil
	}
	c.reverting = false
	if err != nil {
		lerr := &LedgerError{Message: message(err)}
		c.ledgerErr = lerr.Message
		c.mu.Unlock()
		return lerr
	}
	c.mu.Unlock()

	if err := c.RefreshHistory(ctx); err != nil {
		customLog.Warnf("History refresh after revert failed: %v", err)
	}
	return nil
}
