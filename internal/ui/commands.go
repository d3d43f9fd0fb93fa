// internal/ui/commands.go
package ui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"

	"querydesk/internal/storage"
)

// Messages carrying the outcome of backend calls back into the update loop.
// The session controller already discards stale results itself, so these only
// carry what the view needs to react to.
type (
	connectDoneMsg    struct{ err error }
	disconnectDoneMsg struct{}
	queryDoneMsg      struct {
		err error
	}
	historyDoneMsg struct{ err error }
	revertDoneMsg  struct{ err error }
	healthDoneMsg  struct{ err error }

	promptsLoadedMsg struct{ prompts []storage.Prompt }
)

func (m Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		return connectDoneMsg{err: m.session.Connect(context.Background())}
	}
}

func (m Model) disconnectCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Disconnect(context.Background())
		return disconnectDoneMsg{}
	}
}

func (m Model) queryCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.SubmitQuery(context.Background(), text)
		return queryDoneMsg{err: err}
	}
}

func (m Model) refreshHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		return historyDoneMsg{err: m.session.RefreshHistory(context.Background())}
	}
}

func (m Model) revertCmd(index int) tea.Cmd {
	return func() tea.Msg {
		return revertDoneMsg{err: m.session.Revert(context.Background(), index)}
	}
}

func (m Model) healthCmd() tea.Cmd {
	return func() tea.Msg {
		return healthDoneMsg{err: m.client.Health(context.Background())}
	}
}

// savePromptCmd records a submitted query locally for recall. Failures are
// swallowed: prompt history is a convenience, never part of the session flow.
func savePromptCmd(db *sql.DB, text, dbType string) tea.Cmd {
	if db == nil {
		return nil
	}
	return func() tea.Msg {
		_ = storage.SavePrompt(context.Background(), db, text, dbType)
		return loadPromptsMsgFrom(db)
	}
}

func loadPromptsCmd(db *sql.DB) tea.Cmd {
	if db == nil {
		return nil
	}
	return func() tea.Msg {
		return loadPromptsMsgFrom(db)
	}
}

func loadPromptsMsgFrom(db *sql.DB) tea.Msg {
	prompts, err := storage.RecentPrompts(context.Background(), db, promptRecallLimit)
	if err != nil {
		return promptsLoadedMsg{}
	}
	return promptsLoadedMsg{prompts: prompts}
}
