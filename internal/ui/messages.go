package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavescrub/internal/focus"
)

// waitForFocus delivers the next focus change from the broker.
func (m Model) waitForFocus() tea.Cmd {
	if m.focusCh == nil {
		return nil
	}
	ch := m.focusCh
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return focus.ChangeMsg{Change: change}
	}
}
