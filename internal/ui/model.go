// internal/ui/model.go

// Package ui renders the single-screen terminal client: a connection form
// while disconnected and a query workspace once a session is live. All
// session state lives in the session controller; the model only keeps what
// the terminal needs (inputs, focus, scroll positions) and re-reads a
// snapshot on every render.
package ui

import (
	"database/sql"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"querydesk/internal/api"
	"querydesk/internal/session"
	"querydesk/internal/storage"
)

const promptRecallLimit = 20

// pane is the focused region of the workspace screen.
type pane int

const (
	paneQuery pane = iota
	paneHistory
)

// itemKind distinguishes the connect form's focusable rows.
type itemKind int

const (
	itemDBType itemKind = iota
	itemMethod
	itemMode
	itemInput
	itemConnect
)

type formItem struct {
	kind  itemKind
	field string // credential field name, set for itemInput only
}

// Model is the root bubbletea model.
type Model struct {
	session *session.Controller
	client  *api.Client
	prompts *sql.DB // nil when local prompt history is unavailable

	width  int
	height int

	// Connect form
	items      []formItem
	focus      int
	inputs     map[string]textinput.Model
	connecting bool
	spin       spinner.Model

	// Workspace
	queryInput textarea.Model
	respView   viewport.Model
	respReady  bool
	querying   bool
	focusPane  pane
	histCursor int

	// Prompt recall
	recent      []storage.Prompt
	recallIndex int

	backendDown bool

	quitting bool
}

// New builds the root model. promptDB may be nil; prompt recall is then
// simply disabled.
func New(ctrl *session.Controller, client *api.Client, promptDB *sql.DB) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	ta := textarea.New()
	ta.Placeholder = "Ask anything about your data..."
	ta.SetHeight(4)
	ta.ShowLineNumbers = false

	m := Model{
		session:     ctrl,
		client:      client,
		prompts:     promptDB,
		inputs:      make(map[string]textinput.Model),
		spin:        s,
		queryInput:  ta,
		recallIndex: -1,
	}
	m.rebuildForm()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.healthCmd(),
		loadPromptsCmd(m.prompts),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.respView.Width = max(20, m.width-4)
		m.respView.Height = max(3, m.height/3)
		m.respReady = true
		m.queryInput.SetWidth(max(20, m.width-4))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			// Best-effort teardown before the program exits.
			return m, tea.Sequence(m.disconnectCmd(), tea.Quit)
		}
		if m.session.Status() == session.StatusConnected {
			return m.updateWorkspace(msg)
		}
		return m.updateForm(msg)

	case connectDoneMsg:
		m.connecting = false
		if msg.err == nil && m.session.Status() == session.StatusConnected {
			m.focusPane = paneQuery
			m.queryInput.Reset()
			m.queryInput.Focus()
			m.respView.SetContent("")
			m.histCursor = 0
		}
		return m, nil

	case disconnectDoneMsg:
		if m.quitting {
			return m, tea.Quit
		}
		m.rebuildForm()
		m.focus = 0
		m.querying = false
		return m, nil

	case queryDoneMsg:
		m.querying = false
		snap := m.session.Snapshot()
		if msg.err == nil && snap.QueryResult != "" {
			m.respView.SetContent(snap.QueryResult)
			m.respView.GotoTop()
		}
		return m, nil

	case historyDoneMsg:
		snap := m.session.Snapshot()
		if m.histCursor >= len(snap.Entries) {
			m.histCursor = max(0, len(snap.Entries)-1)
		}
		return m, nil

	case revertDoneMsg:
		// The controller refreshed the ledger already; just clamp the cursor.
		snap := m.session.Snapshot()
		if m.histCursor >= len(snap.Entries) {
			m.histCursor = max(0, len(snap.Entries)-1)
		}
		return m, nil

	case healthDoneMsg:
		m.backendDown = msg.err != nil
		return m, nil

	case promptsLoadedMsg:
		m.recent = msg.prompts
		m.recallIndex = -1
		return m, nil

	case spinner.TickMsg:
		if m.connecting || m.querying {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Disconnecting...\n"
	}
	if m.session.Status() == session.StatusConnected {
		return m.viewWorkspace()
	}
	return m.viewForm()
}
