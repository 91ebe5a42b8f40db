package components

import (
	"fmt"
	"slices"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quizdeck/internal/core/styles"
)

// LecturePicker lets the user choose a lecture to jump to.
type LecturePicker struct {
	lectures []int
	cursor   int
}

// NewLecturePicker creates a picker over lectures with the cursor on current.
func NewLecturePicker(lectures []int, current int) *LecturePicker {
	return &LecturePicker{
		lectures: lectures,
		cursor:   max(slices.Index(lectures, current), 0),
	}
}

// Up moves the cursor up, wrapping to the bottom.
func (p *LecturePicker) Up() {
	if len(p.lectures) == 0 {
		return
	}
	p.cursor = (p.cursor - 1 + len(p.lectures)) % len(p.lectures)
}

// Down moves the cursor down, wrapping to the top.
func (p *LecturePicker) Down() {
	if len(p.lectures) == 0 {
		return
	}
	p.cursor = (p.cursor + 1) % len(p.lectures)
}

// Selected returns the lecture under the cursor.
func (p *LecturePicker) Selected() (int, bool) {
	if len(p.lectures) == 0 {
		return 0, false
	}
	return p.lectures[p.cursor], true
}

// View renders the picker.
func (p *LecturePicker) View() string {
	lines := make([]string, 0, len(p.lectures))
	for i, lecture := range p.lectures {
		label := fmt.Sprintf("%s Lecture %d", styles.IconLecture, lecture)
		if i == p.cursor {
			lines = append(lines, styles.SidebarActiveStyle.Render(styles.IconCursor+" "+label))
		} else {
			lines = append(lines, styles.SidebarItemStyle.Render("  "+label))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Jump to lecture"),
		"",
		strings.Join(lines, "\n"),
		styles.ModalHelpStyle.Render("↑/↓ move  enter jump  esc cancel"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay renders the picker centered over background.
func (p *LecturePicker) Overlay(background string, width, height int) string {
	return Center(background, p.View(), width, height)
}
