package tui

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quizdeck/internal/core/styles"
	"github.com/colonyops/quizdeck/internal/tui/components"
)

// Modal represents a confirmation dialog.
type Modal struct {
	title           string
	message         string
	visible         bool
	confirmSelected bool
}

// NewModal creates a new modal with the given title and message. Cancel is
// selected initially.
func NewModal(title, message string) Modal {
	return Modal{
		title:   title,
		message: message,
		visible: true,
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Visible returns whether the modal should be displayed.
func (m Modal) Visible() bool {
	return m.visible
}

// Overlay renders the modal centered over the given background content.
func (m Modal) Overlay(background string, width, height int) string {
	if !m.visible {
		return background
	}

	confirmBtn := styles.ModalButtonStyle.Render("Confirm")
	cancelBtn := styles.ModalButtonSelectedStyle.Render("Cancel")
	if m.confirmSelected {
		confirmBtn = styles.ModalButtonSelectedStyle.Render("Confirm")
		cancelBtn = styles.ModalButtonStyle.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		lipgloss.NewStyle().MarginTop(1).Render(buttons),
		styles.ModalHelpStyle.Render("←/→ select  enter confirm  y/n  esc cancel"),
	)

	return components.Center(background, styles.ModalStyle.Render(content), width, height)
}
