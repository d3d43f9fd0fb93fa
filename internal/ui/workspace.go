// internal/ui/workspace.go
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"querydesk/internal/core"
)

func (m Model) updateWorkspace(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.session.Snapshot()

	switch msg.String() {
	case "ctrl+d":
		return m, m.disconnectCmd()

	case "ctrl+s":
		return m.submitQuery()

	case "ctrl+r":
		if snap.Mode == core.ModeReadWrite {
			return m, m.refreshHistoryCmd()
		}
		return m, nil

	case "ctrl+p", "ctrl+n":
		return m.recallPrompt(msg.String() == "ctrl+p")

	case "tab":
		if snap.Mode == core.ModeReadWrite {
			if m.focusPane == paneQuery {
				m.focusPane = paneHistory
				m.queryInput.Blur()
			} else {
				m.focusPane = paneQuery
				m.queryInput.Focus()
			}
		}
		return m, nil
	}

	if m.focusPane == paneHistory {
		return m.updateHistoryPane(msg, len(snap.Entries))
	}

	// Scroll the response with pgup/pgdown even while typing.
	switch msg.String() {
	case "pgup":
		m.respView.HalfViewUp()
		return m, nil
	case "pgdown":
		m.respView.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	if m.recallIndex >= 0 && isEditKey(msg) {
		m.recallIndex = -1 // typing ends the recall cycle
	}
	return m, cmd
}

func (m Model) submitQuery() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.queryInput.Value())
	if text == "" || m.querying {
		return m, nil
	}
	m.querying = true
	m.recallIndex = -1
	dbType := string(m.session.Form().DBType())
	return m, tea.Batch(
		m.queryCmd(text),
		savePromptCmd(m.prompts, text, dbType),
		m.spin.Tick,
	)
}

// recallPrompt cycles the query editor through recently used prompts,
// oldest-to-newest with ctrl+n, newest-to-oldest with ctrl+p.
func (m Model) recallPrompt(back bool) (tea.Model, tea.Cmd) {
	if len(m.recent) == 0 || m.focusPane != paneQuery {
		return m, nil
	}
	if back {
		if m.recallIndex < len(m.recent)-1 {
			m.recallIndex++
		}
	} else {
		if m.recallIndex > 0 {
			m.recallIndex--
		}
	}
	if m.recallIndex >= 0 && m.recallIndex < len(m.recent) {
		m.queryInput.SetValue(m.recent[m.recallIndex].Text)
		m.queryInput.CursorEnd()
	}
	return m, nil
}

func (m Model) updateHistoryPane(msg tea.KeyMsg, count int) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.histCursor > 0 {
			m.histCursor--
		}
	case "down", "j":
		if m.histCursor < count-1 {
			m.histCursor++
		}
	case "enter", "r":
		return m, m.revertCmd(m.histCursor)
	}
	return m, nil
}

func (m Model) viewWorkspace() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	badge := connectedBadgeStyle.Render("● connected")
	mode := string(snap.Mode)
	if snap.Mode == core.ModeReadWrite {
		mode = readWriteBadgeStyle.Render(mode)
	} else {
		mode = statusBarStyle.Render(mode)
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s\n\n",
		titleStyle.Render("AI Database Assistant"), badge, mode))

	b.WriteString(m.queryInput.View())
	b.WriteString("\n")

	if m.querying {
		b.WriteString(fmt.Sprintf("%s thinking...\n", m.spin.View()))
	}
	if snap.QueryErr != "" {
		b.WriteString(errorBannerStyle.Render(snap.QueryErr))
		b.WriteString("\n")
	}
	if snap.QueryResult != "" {
		b.WriteString(responseStyle.Render(m.respView.View()))
		b.WriteString("\n")
	}

	if snap.Mode == core.ModeReadWrite {
		b.WriteString(m.viewHistory())
	}

	help := "ctrl+s run · ctrl+p recall · ctrl+d disconnect · ctrl+c quit"
	if snap.Mode == core.ModeReadWrite {
		help = "ctrl+s run · tab history · ctrl+r refresh · r revert · ctrl+d disconnect · ctrl+c quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewHistory() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	title := "Change history"
	if m.focusPane == paneHistory {
		title = focusedLabelStyle.Render(title)
	} else {
		title = labelStyle.Render(title)
	}
	b.WriteString("\n" + title + "\n")

	if snap.LedgerErr != "" {
		b.WriteString(errorBannerStyle.Render(snap.LedgerErr))
		b.WriteString("\n")
	}
	if len(snap.Entries) == 0 {
		b.WriteString(statusBarStyle.Render("  no changes recorded yet"))
		b.WriteString("\n")
		return b.String()
	}

	for i, e := range snap.Entries {
		cursor := "  "
		if m.focusPane == paneHistory && i == m.histCursor {
			cursor = historyCursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s %s", e.Timestamp.Local().Format("15:04:05"), e.Description)
		if e.Reverted {
			line = revertedEntryStyle.Render(line + " (reverted)")
		}
		b.WriteString(cursor + line + "\n")
	}
	if snap.LedgerBusy {
		b.WriteString(statusBarStyle.Render("  syncing..."))
		b.WriteString("\n")
	}
	return b.String()
}

func isEditKey(msg tea.KeyMsg) bool {
	s := msg.String()
	if len(s) == 1 {
		return true
	}
	return s == "backspace" || s == "delete" || s == "enter" || s == "space"
}
