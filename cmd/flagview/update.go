package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flagkit/flagkit/pkg/flagkit"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		listWidth := m.width / 2
		m.list.SetSize(listWidth, m.height-4)
		return m, nil

	case refreshMsg:
		m.refreshItems()
		return m, listenForRefresh(m.refreshCh)

	case detailEventMsg:
		m.logEvent(describeEvent(flagkit.Event(msg)))
		m.refreshItems()
		return m, listenForDetail(m.detailCh)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, keys.Quit):
			if m.detailSub != nil {
				m.detailSub()
			}
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			if k, ok := m.selectedKey(); ok {
				_, _ = m.store.Toggle(k)
			}
			return m, nil
		case key.Matches(msg, keys.Increment):
			if k, ok := m.selectedKey(); ok {
				_, _ = m.store.Increment(k)
			}
			return m, nil
		case key.Matches(msg, keys.Decrement):
			if k, ok := m.selectedKey(); ok {
				_, _ = m.store.Decrement(k)
			}
			return m, nil
		case key.Matches(msg, keys.Delete):
			if k, ok := m.selectedKey(); ok {
				m.lastErr = m.store.Delete(k)
			}
			return m, nil
		case key.Matches(msg, keys.Undo):
			_, m.lastErr = m.store.Undo()
			return m, nil
		case key.Matches(msg, keys.Redo):
			_, m.lastErr = m.store.Redo()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.syncDetailSubscription()
	return m, cmd
}
