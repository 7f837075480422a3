package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	if !m.ready {
		return "loading...\n"
	}

	listPane := paneStyle.Width(m.width/2 - 2).Height(m.height - 4).Render(m.list.View())
	detailPane := activePaneStyle.Width(m.width/2 - 2).Height(m.height - 4).Render(m.renderDetail())

	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus())
}

func (m *model) renderDetail() string {
	key, ok := m.selectedKey()
	if !ok {
		return "no keys yet\n\npress t/+/-/d on a key once one exists"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(key))
	b.WriteString("\n\n")

	v, present := m.store.Get(key)
	b.WriteString(detailLabelStyle.Render("value"))
	if present {
		b.WriteString(detailValueStyle.Render(formatValue(v)))
		b.WriteString("  (" + v.Tag().String() + ")")
	} else {
		b.WriteString("<absent>")
	}
	b.WriteString("\n")

	b.WriteString(detailLabelStyle.Render("undo"))
	b.WriteString(fmt.Sprintf("%t", m.store.CanUndo()))
	b.WriteString("\n")
	b.WriteString(detailLabelStyle.Render("redo"))
	b.WriteString(fmt.Sprintf("%t", m.store.CanRedo()))
	b.WriteString("\n\n")

	b.WriteString(detailLabelStyle.Render("events"))
	b.WriteString("\n")
	if len(m.events) == 0 {
		b.WriteString(statusStyle.Render("(none yet)"))
	}
	for _, ev := range m.events {
		b.WriteString(eventOkStyle.Render(ev))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *model) renderStatus() string {
	help := "t toggle  +/- increment/decrement  d delete  u undo  ctrl+r redo  / filter  q quit"
	if m.lastErr != nil {
		return eventErrStyle.Render("error: " + m.lastErr.Error())
	}
	return statusStyle.Render(help)
}
