package table

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap holds the bindings the interactive wrapper responds to.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
}

// DefaultKeyMap matches the bindings used across the app's list views.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	}
}

// Model wraps a Table with cursor movement and row selection. The wrapper
// owns interaction state only; each View call re-derives the render from the
// current inputs through Table.Render's machinery. When rows are replaced
// the cursor stays on the row with the same identity, so a refresh under the
// user's feet doesn't move their selection.
type Model[T any] struct {
	Table Table[T]

	// OnSelect, when set, is invoked with the chosen row and the message
	// that chose it. Selection affordances (marker, highlight) are drawn
	// only when a handler is present.
	OnSelect func(row T, msg tea.Msg)

	KeyMap KeyMap

	cursor  int
	width   int
	spinner spinner.Model
}

// New returns a wrapper around t with default key bindings.
func New[T any](t Table[T]) Model[T] {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return Model[T]{Table: t, KeyMap: DefaultKeyMap(), spinner: sp}
}

// Init starts the loading spinner tick.
func (m Model[T]) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetRows replaces the row set, re-anchoring the cursor by row identity.
func (m *Model[T]) SetRows(rows []T) {
	var prevID any
	if len(m.Table.Rows) > 0 && m.cursor < len(m.Table.Rows) {
		prevID = m.Table.RowID(m.Table.Rows[m.cursor])
	}
	m.Table.Rows = rows
	m.cursor = 0
	if prevID == nil {
		return
	}
	for i, row := range rows {
		if m.Table.RowID(row) == prevID {
			m.cursor = i
			return
		}
	}
}

// SetLoading toggles the loading state.
func (m *Model[T]) SetLoading(v bool) { m.Table.Loading = v }

// SetWidth sets the render width.
func (m *Model[T]) SetWidth(w int) { m.width = w }

// Cursor returns the index of the marked row.
func (m Model[T]) Cursor() int { return m.cursor }

// Selected returns the marked row, or false when there are none.
func (m Model[T]) Selected() (T, bool) {
	var zero T
	if len(m.Table.Rows) == 0 || m.cursor >= len(m.Table.Rows) {
		return zero, false
	}
	return m.Table.Rows[m.cursor], true
}

// Update moves the cursor and reports selections. Selecting a row never
// mutates the wrapper; it only notifies OnSelect.
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.Table.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.KeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.KeyMap.Down):
			if m.cursor < len(m.Table.Rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.KeyMap.Select):
			if m.OnSelect != nil {
				if row, ok := m.Selected(); ok {
					m.OnSelect(row, msg)
				}
			}
		}
	case tea.MouseMsg:
		if m.OnSelect != nil && msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if row, ok := m.Selected(); ok {
				m.OnSelect(row, msg)
			}
		}
	}
	return m, nil
}

// View renders through the pure table renderer. The marker is passed only
// when a selection handler exists; without one the table draws no
// affordance at all.
func (m Model[T]) View() string {
	marker := ""
	cursor := -1
	if m.OnSelect != nil {
		marker = "▶"
		cursor = m.cursor
	}
	return m.Table.render(m.width, m.spinner.View()+" loading", cursor, marker)
}
