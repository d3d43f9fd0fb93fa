// internal/session/controller.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"querydesk/internal/api"
	"querydesk/internal/core"
	"querydesk/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Status is the connection lifecycle state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusDisconnecting
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}

// Entry is one ledger entry with its authoritative position in the backend's
// ordering. The Reverted flag is monotonic on the client: once true it never
// flips back, even if a refresh claims otherwise.
type Entry struct {
	Index       int
	Description string
	Timestamp   time.Time
	Reverted    bool
}

// Snapshot is a consistent copy of everything the UI renders.
type Snapshot struct {
	Status      Status
	Mode        core.Mode
	Epoch       string
	ConnErr     string
	QueryBusy   bool
	QueryResult string
	QueryErr    string
	LedgerBusy  bool
	Entries     []Entry
	LedgerErr   string
}

// Controller owns the connection lifecycle and every piece of session-scoped
// state: the credential form, the live session, the last query result, and
// the history ledger. It is the only writer of that state; everything else
// reads through Snapshot.
//
// Methods block until their backend call completes, so callers drive them
// from their own goroutines (the TUI uses tea.Cmd). Each call captures the
// session epoch at dispatch and discards its result if the epoch moved,
// so a disconnect always wins over in-flight work.
type Controller struct {
	client *api.Client
	form   *core.Form

	mu     sync.Mutex
	status Status
	mode   core.Mode
	epoch  string

	connErr string

	queryBusy   bool
	queryResult string
	queryErr    string

	reverting  bool
	refreshing int
	entries    []Entry
	ledgerErr  string
}

// NewController builds a controller around a backend client.
func NewController(client *api.Client) *Controller {
	return &Controller{
		client: client,
		form:   core.NewForm(),
		status: StatusDisconnected,
	}
}

// Form exposes the credential form. The form is only mutated between connect
// attempts and by the teardown path, so no locking is needed around it in
// the single-user flows this client serves.
func (c *Controller) Form() *core.Form { return c.form }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]Entry, len(c.entries))
	copy(entries, c.entries)
	return Snapshot{
		Status:      c.status,
		Mode:        c.mode,
		Epoch:       c.epoch,
		ConnErr:     c.connErr,
		QueryBusy:   c.queryBusy,
		QueryResult: c.queryResult,
		QueryErr:    c.queryErr,
		LedgerBusy:  c.reverting || c.refreshing > 0,
		Entries:     entries,
		LedgerErr:   c.ledgerErr,
	}
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Mode returns the session's operation mode; empty when disconnected.
func (c *Controller) Mode() core.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// ClearConnectionError dismisses the surfaced connect failure.
func (c *Controller) ClearConnectionError() {
	c.mu.Lock()
	c.connErr = ""
	c.mu.Unlock()
}

// Connect validates the form and, if complete, attempts to establish a
// session. Validation failures return a *ValidationError without touching the
// network or the lifecycle state. Backend rejections return a
// *ConnectionError and leave the controller disconnected. Only one connect
// may be outstanding.
func (c *Controller) Connect(ctx context.Context) error {
	if verr := newValidationError(c.form.Validate()); verr != nil {
		return verr
	}
	cfg := c.form.Config()
	if err := cfg.Validate(); err != nil {
		return &ValidationError{Missing: c.form.RequiredFields()}
	}

	c.mu.Lock()
	if c.status != StatusDisconnected {
		c.mu.Unlock()
		return ErrConnectInFlight
	}
	c.status = StatusConnecting
	c.connErr = ""
	epoch := uuid.NewString()
	c.epoch = epoch
	c.mu.Unlock()

	err := c.client.Connect(ctx, cfg, c.form.Credentials())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.status != StatusConnecting {
		// Superseded by a disconnect while the request was in flight.
		return nil
	}
	if err != nil {
		c.status = StatusDisconnected
		cerr := &ConnectionError{Message: message(err)}
		c.connErr = cerr.Message
		return cerr
	}
	c.status = StatusConnected
	c.mode = cfg.Mode
	return nil
}

// Disconnect tears the session down. The backend call is best effort: its
// outcome never gates the local transition, and failures are logged only.
// All session-scoped state is cleared unconditionally.
func (c *Controller) Disconnect(ctx context.Context) {
	c.mu.Lock()
	if c.status == StatusDisconnected || c.status == StatusDisconnecting {
		c.mu.Unlock()
		return
	}
	c.status = StatusDisconnecting
	// Invalidate the epoch first so results of in-flight operations are
	// discarded instead of landing in the cleared state.
	c.epoch = ""
	c.mu.Unlock()

	if err := c.client.Disconnect(ctx); err != nil {
		customLog.Warnf("Disconnect request failed (ignored): %v", err)
	}

	c.mu.Lock()
	c.status = StatusDisconnected
	c.mode = ""
	c.connErr = ""
	c.queryBusy = false
	c.queryResult = ""
	c.queryErr = ""
	c.reverting = false
	c.refreshing = 0
	c.entries = nil
	c.ledgerErr = ""
	c.mu.Unlock()

	c.form.Reset()
}
