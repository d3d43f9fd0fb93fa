// internal/ui/form.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"querydesk/internal/core"
)

var dbTypes = []core.DBType{
	core.DBTypeSupabase,
	core.DBTypePostgreSQL,
	core.DBTypeMySQL,
	core.DBTypeMongoDB,
}

var fieldLabels = map[string]string{
	core.FieldConnectionString: "Connection string",
	core.FieldHost:             "Host",
	core.FieldPort:             "Port",
	core.FieldDBName:           "Database",
	core.FieldUser:             "User",
	core.FieldPassword:         "Password",
}

// rebuildForm recomputes the focusable rows for the current form shape and
// refreshes the text inputs from the form's stored values.
func (m *Model) rebuildForm() {
	f := m.session.Form()

	items := []formItem{{kind: itemDBType}}
	if f.DBType() != core.DBTypeMongoDB {
		items = append(items, formItem{kind: itemMethod})
	}
	items = append(items, formItem{kind: itemMode})
	for _, name := range m.visibleFields() {
		items = append(items, formItem{kind: itemInput, field: name})
	}
	items = append(items, formItem{kind: itemConnect})

	m.items = items
	if m.focus >= len(items) {
		m.focus = len(items) - 1
	}
	m.syncInputs()
}

// visibleFields lists the credential inputs the current shape shows. The
// optional port field rides along with the individual credentials.
func (m *Model) visibleFields() []string {
	f := m.session.Form()
	if f.Method() == core.MethodConnectionString {
		return []string{core.FieldConnectionString}
	}
	return []string{
		core.FieldHost,
		core.FieldPort,
		core.FieldDBName,
		core.FieldUser,
		core.FieldPassword,
	}
}

func (m *Model) syncInputs() {
	f := m.session.Form()
	for _, name := range m.visibleFields() {
		in, ok := m.inputs[name]
		if !ok {
			in = textinput.New()
			in.Prompt = "> "
			in.CharLimit = 512
			if name == core.FieldPassword {
				in.EchoMode = textinput.EchoPassword
			}
		}
		if name == core.FieldPort {
			if p := core.DefaultPort(f.DBType()); p != "" {
				in.Placeholder = p + " (optional)"
			} else {
				in.Placeholder = "(optional)"
			}
		}
		in.SetValue(f.Field(name))
		m.inputs[name] = in
	}
	m.applyInputFocus()
}

func (m *Model) applyInputFocus() {
	focused := ""
	if m.focus < len(m.items) && m.items[m.focus].kind == itemInput {
		focused = m.items[m.focus].field
	}
	for name, in := range m.inputs {
		if name == focused {
			in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[name] = in
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.connecting {
		// The only thing the form accepts mid-connect is quit, handled above.
		return m, nil
	}

	f := m.session.Form()
	item := m.items[m.focus]

	switch msg.String() {
	case "up", "shift+tab":
		if m.focus > 0 {
			m.focus--
		}
		m.applyInputFocus()
		return m, nil

	case "down", "tab":
		if m.focus < len(m.items)-1 {
			m.focus++
		}
		m.applyInputFocus()
		return m, nil

	case "esc":
		m.session.ClearConnectionError()
		return m, nil

	case "left", "right":
		if item.kind == itemInput {
			break // let the input handle cursor movement
		}
		m.cycleSelector(item.kind, msg.String() == "right")
		return m, nil

	case "enter":
		if item.kind == itemConnect {
			return m.submitConnect()
		}
		if m.focus < len(m.items)-1 {
			m.focus++
			m.applyInputFocus()
		}
		return m, nil
	}

	if item.kind != itemInput {
		return m, nil
	}
	in := m.inputs[item.field]
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[item.field] = in
	f.SetField(item.field, in.Value())
	return m, cmd
}

// cycleSelector steps a selector row through its options. Changing the type
// or method clears entered credentials, so the inputs are resynced.
func (m *Model) cycleSelector(kind itemKind, forward bool) {
	f := m.session.Form()
	switch kind {
	case itemDBType:
		idx := 0
		for i, t := range dbTypes {
			if t == f.DBType() {
				idx = i
			}
		}
		if forward {
			idx = (idx + 1) % len(dbTypes)
		} else {
			idx = (idx - 1 + len(dbTypes)) % len(dbTypes)
		}
		f.SetDBType(dbTypes[idx])
		m.rebuildForm()
	case itemMethod:
		if f.Method() == core.MethodConnectionString {
			f.SetConnectionMethod(core.MethodIndividual)
		} else {
			f.SetConnectionMethod(core.MethodConnectionString)
		}
		m.rebuildForm()
	case itemMode:
		if f.Mode() == core.ModeReadOnly {
			f.SetMode(core.ModeReadWrite)
		} else {
			f.SetMode(core.ModeReadOnly)
		}
	}
}

func (m Model) submitConnect() (tea.Model, tea.Cmd) {
	// Pre-validate so an incomplete form highlights instantly instead of
	// waiting a frame for the command to come back.
	if missing := m.session.Form().Validate(); anyMissing(missing) {
		return m, nil
	}
	m.connecting = true
	return m, tea.Batch(m.connectCmd(), m.spin.Tick)
}

func anyMissing(result map[string]bool) bool {
	for _, miss := range result {
		if miss {
			return true
		}
	}
	return false
}

func (m Model) viewForm() string {
	f := m.session.Form()
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Database Assistant"))
	b.WriteString("\n")

	if snap.ConnErr != "" {
		b.WriteString(errorBannerStyle.Render(snap.ConnErr))
		b.WriteString("\n\n")
	}
	if m.backendDown {
		b.WriteString(statusBarStyle.Render("  assistant service is not responding; connecting may fail"))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		focused := i == m.focus
		switch item.kind {
		case itemDBType:
			b.WriteString(m.renderSelector("Database", string(f.DBType()), dbTypeOptions(), focused))
		case itemMethod:
			b.WriteString(m.renderSelector("Credentials", methodLabel(f.Method()),
				[]string{"Connection string", "Individual fields"}, focused))
		case itemMode:
			b.WriteString(m.renderSelector("Mode", string(f.Mode()),
				[]string{string(core.ModeReadOnly), string(core.ModeReadWrite)}, focused))
		case itemInput:
			b.WriteString(m.renderInput(item.field, focused))
		case itemConnect:
			label := "[ Connect ]"
			if focused {
				label = selectedOptionStyle.Render(label)
			} else {
				label = selectorStyle.Render(label)
			}
			b.WriteString("\n  " + label + "\n")
		}
	}

	if m.connecting {
		b.WriteString(fmt.Sprintf("\n  %s connecting...\n", m.spin.View()))
	}

	b.WriteString(helpStyle.Render(
		"  up/down navigate · left/right change option · enter connect · ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSelector(label, current string, options []string, focused bool) string {
	ls := labelStyle
	if focused {
		ls = focusedLabelStyle
	}
	var opts []string
	for _, o := range options {
		if strings.EqualFold(o, current) {
			opts = append(opts, selectedOptionStyle.Render(o))
		} else {
			opts = append(opts, selectorStyle.Render(o))
		}
	}
	return fmt.Sprintf("  %s  %s\n", ls.Render(fmt.Sprintf("%-14s", label)), strings.Join(opts, "  "))
}

func (m Model) renderInput(field string, focused bool) string {
	f := m.session.Form()
	label := fieldLabels[field]
	ls := labelStyle
	if focused {
		ls = focusedLabelStyle
	}
	if f.Missing(field) {
		ls = invalidStyle
		label += " *"
	}
	in := m.inputs[field]
	return fmt.Sprintf("  %s  %s\n", ls.Render(fmt.Sprintf("%-14s", label)), in.View())
}

func dbTypeOptions() []string {
	out := make([]string, len(dbTypes))
	for i, t := range dbTypes {
		out[i] = string(t)
	}
	return out
}

func methodLabel(mth core.Method) string {
	if mth == core.MethodConnectionString {
		return "Connection string"
	}
	return "Individual fields"
}
