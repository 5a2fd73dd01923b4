package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GrahamCHill/diagram-studio/internal/editor/session"
)

const sidebarWidth = 32

func (m Model) View() string {
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.viewSidebar(),
		m.viewEditor(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatusBar())
}

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Saved Diagrams"))
	b.WriteString("\n")

	if len(m.snap.Listing) == 0 {
		b.WriteString(dimStyle.Render(" (none yet)"))
		b.WriteString("\n")
	}

	for i, d := range m.snap.Listing {
		line := truncate(d.Title, sidebarWidth-4)
		if d.ID == m.snap.BoundID {
			line = boundTag.Render("*") + " " + line
		}
		if i == m.cursor && m.focus == focusList {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
		if d.Description != "" {
			b.WriteString(dimStyle.Render("  " + truncate(d.Description, sidebarWidth-4)))
			b.WriteString("\n")
		}
		b.WriteString(dimStyle.Render("  " + d.CreatedAt.Format("2006-01-02")))
		b.WriteString("\n")
	}

	return sidebarStyle.Width(sidebarWidth).Render(b.String())
}

func (m Model) viewEditor() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.descInput.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Diagram Code"))
	b.WriteString("\n")
	b.WriteString(m.sourceArea.View())
	b.WriteString("\n")
	b.WriteString(m.viewPreviewLine())

	return lipgloss.NewStyle().PaddingLeft(1).Render(b.String())
}

func (m Model) viewPreviewLine() string {
	switch m.snap.RenderStatus {
	case session.StatusRendering:
		return dimStyle.Render("Preview: rendering...")
	case session.StatusRendered:
		return dimStyle.Render(fmt.Sprintf("Preview: %d bytes -> %s", len(m.snap.Artifact.SVG), m.previewPath))
	case session.StatusFailed:
		return errorStyle.Render("Preview: " + m.snap.RenderMessage)
	default:
		return ""
	}
}

func (m Model) viewStatusBar() string {
	if m.confirm != nil {
		return confirmStyle.Width(m.width).Render(m.confirm.message + " [y/n]")
	}

	mode := "New Diagram"
	if m.snap.BoundID != "" {
		mode = "Editing " + m.snap.BoundID
	}

	help := "tab focus · ctrl+s save · ctrl+n new · ctrl+r refresh · enter load · d delete · ctrl+c quit"
	left := mode
	if m.status != "" {
		left = mode + " | " + m.status
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		return statusBarStyle.Width(m.width).Render(left)
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + help)
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
