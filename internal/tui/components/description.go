package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quizdeck/internal/core/styles"
)

const (
	descriptionMaxHeight = 30
	descriptionMargin    = 4
	descriptionChrome    = 6 // title + divider + help + borders
	descriptionMinWidth  = 40
)

// DescriptionDialog shows the long-form description of a question in a
// scrollable overlay.
type DescriptionDialog struct {
	title    string
	width    int
	height   int
	viewport viewport.Model
}

// NewDescriptionDialog creates a dialog sized for a width x height screen.
// render formats the body for the given content width.
func NewDescriptionDialog(title string, render func(width int) string, width, height int) *DescriptionDialog {
	modalWidth, modalHeight := descriptionSize(width, height)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4),
		viewport.WithHeight(max(modalHeight-descriptionChrome, 1)),
	)
	vp.SetContent(render(modalWidth - 4))

	return &DescriptionDialog{
		title:    title,
		width:    width,
		height:   height,
		viewport: vp,
	}
}

func descriptionSize(width, height int) (int, int) {
	w := min(max(int(float64(width)*0.7), descriptionMinWidth), width-descriptionMargin)
	h := min(height-descriptionMargin, descriptionMaxHeight)
	return max(w, 10), max(h, descriptionChrome+1)
}

// ScrollUp scrolls the viewport up one line.
func (d *DescriptionDialog) ScrollUp() {
	d.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down one line.
func (d *DescriptionDialog) ScrollDown() {
	d.viewport.ScrollDown(1)
}

// Overlay renders the dialog centered over background.
func (d *DescriptionDialog) Overlay(background string) string {
	modalWidth, modalHeight := descriptionSize(d.width, d.height)

	title := d.title
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		title += styles.TextMutedStyle.Render(fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		styles.TextMutedStyle.Render(strings.Repeat("─", max(modalWidth-6, 1))),
		d.viewport.View(),
		styles.ModalHelpStyle.Render("j/k scroll  esc/d close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(content)

	return Center(background, modal, d.width, d.height)
}
