package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/mathtext"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/core/styles"
)

const (
	sidebarWidth  = 14
	iconSeparator = " • "
)

func (m Model) View() tea.View {
	v := tea.NewView(m.content())
	v.AltScreen = true
	return v
}

// content renders the full screen, overlays included.
func (m Model) content() string {
	if m.quitting {
		return ""
	}

	w, h := m.size()
	mainView := m.renderMain(w, h)

	switch {
	case m.state == stateShowingHelp && m.helpDialog != nil:
		return m.helpDialog.Overlay(mainView, w, h)
	case m.state == stateConfirmResetMarks:
		return m.modal.Overlay(mainView, w, h)
	case m.state == statePickingLecture && m.picker != nil:
		return m.picker.Overlay(mainView, w, h)
	case m.quiz.Interaction().DescriptionOpen() && m.description != nil:
		return m.description.Overlay(mainView)
	default:
		return mainView
	}
}

// renderMain renders header, body and footer without overlays.
func (m Model) renderMain(w, h int) string {
	top := []string{m.renderHeader(w)}
	for _, warning := range m.warnings {
		top = append(top, styles.WarningBannerStyle.Width(w).Render("⚠ "+warning))
	}
	header := lipgloss.JoinVertical(lipgloss.Left, top...)
	footer := m.renderFooter(w)

	bodyHeight := max(h-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var body string
	if m.quiz.Empty() {
		body = lipgloss.Place(w, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderEmptyState())
	} else {
		sidebar := m.renderSidebar(bodyHeight)
		cardWidth := min(w-lipgloss.Width(sidebar), m.cfg.TUI.WordWrap+styles.CardStyle.GetHorizontalFrameSize())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, m.renderCard(cardWidth))
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader(w int) string {
	badge := func(label string, on bool) string {
		if on {
			return styles.BadgeActiveStyle.Render(label)
		}
		return styles.BadgeStyle.Render(label)
	}

	badges := []string{
		styles.HeaderStyle.Render("quizdeck"),
		badge(styles.IconShuffle+" random", m.quiz.Random()),
		badge(styles.IconMarked+" marked only", m.quiz.MarkedOnly()),
		badge("answers hidden", m.quiz.HideAnswers()),
		badge(string(m.quiz.Theme()), false),
	}

	left := strings.Join(badges, " ")
	right := styles.MarkStyle.Render(fmt.Sprintf("%s %d marked", styles.IconMarked, m.quiz.Marks().Len()))

	gap := max(w-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSidebar(height int) string {
	current, _ := m.quiz.Current()

	counts := make(map[int]int)
	for _, q := range m.quiz.Derived() {
		counts[q.Lecture]++
	}

	lines := []string{styles.TextMutedStyle.Render("Lectures"), ""}
	for _, lecture := range m.quiz.Lectures() {
		label := fmt.Sprintf("%s%-3d %3d", styles.IconLecture, lecture, counts[lecture])
		if lecture == current.Lecture {
			lines = append(lines, styles.SidebarActiveStyle.Render(label))
		} else {
			lines = append(lines, styles.SidebarItemStyle.Render(label))
		}
	}

	return styles.SidebarStyle.
		Width(sidebarWidth).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(width int) string {
	q, ok := m.quiz.Current()
	if !ok {
		return ""
	}

	contentWidth := max(width-styles.CardStyle.GetHorizontalFrameSize(), 10)

	mark := styles.TextMutedStyle.Render(styles.IconUnmarked)
	if m.quiz.IsMarked(q.ID) {
		mark = styles.MarkStyle.Render(styles.IconMarked)
	}
	meta := mark + " " + styles.QuestionTitleStyle.Render(fmt.Sprintf("Lecture %d", q.Lecture)) +
		styles.TextMutedStyle.Render(iconSeparator+q.ID)

	sections := []string{meta, "", m.renderer.Render(q.Prompt, contentWidth), ""}
	sections = append(sections, m.renderChoices(q))

	outcome := m.quiz.Outcome()
	switch outcome {
	case quiz.OutcomeCorrect:
		sections = append(sections, "", styles.ResultCorrectStyle.Render(outcome.Message(q)))
	case quiz.OutcomeIncorrect:
		sections = append(sections, "", styles.ResultIncorrectStyle.Render(outcome.Message(q)))
	}

	if outcome != quiz.OutcomePending && q.Explanation != "" {
		sections = append(sections,
			"",
			styles.TextForegroundBoldStyle.Render("Explanation"),
			m.renderer.Render(q.Explanation, contentWidth),
		)
	}

	if q.Description != "" {
		if label := m.keys.Label(config.ActionDescription); label != "" {
			sections = append(sections, "", styles.TextMutedStyle.Render(fmt.Sprintf("Press %s for details.", label)))
		}
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderChoices(q quiz.Question) string {
	if !m.quiz.ChoicesVisible() {
		hint := "Answers are hidden."
		if label := m.keys.Label(config.ActionReveal); label != "" {
			hint += fmt.Sprintf(" Press %s to reveal.", label)
		}
		return styles.TextMutedStyle.Render(hint)
	}

	in := m.quiz.Interaction()
	selected, hasSelection := in.Selected()

	lines := make([]string, 0, len(q.Choices))
	for i, choice := range q.Choices {
		cursor := "  "
		if i == m.cursor && !in.Checked() {
			cursor = styles.ChoiceCursorStyle.Render(styles.IconCursor) + " "
		}

		isSelected := hasSelection && selected == choice
		radio := styles.IconRadioOff
		if isSelected {
			radio = styles.IconRadioOn
		}

		text := choice
		if m.cfg.MathEnabled() {
			text = mathtext.Convert(choice)
		}
		label := fmt.Sprintf("%s %d. %s", radio, i+1, text)

		style := styles.ChoiceStyle
		suffix := ""
		switch {
		case in.Checked() && q.IsCorrect(choice):
			style = styles.ChoiceCorrectStyle
			suffix = " " + styles.IconCheck
		case in.Checked() && isSelected:
			style = styles.ChoiceIncorrectStyle
			suffix = " " + styles.IconCross
		case isSelected:
			style = styles.ChoiceSelectedStyle
		case i == m.cursor:
			style = styles.ChoiceCursorStyle
		}

		lines = append(lines, cursor+style.Render(label)+suffix)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderEmptyState() string {
	lines := []string{styles.EmptyStateStyle.Render("No questions to display.")}

	if m.quiz.MarkedOnly() && len(m.quiz.Questions()) > 0 {
		hint := "No questions are marked."
		if label := m.keys.Label(config.ActionToggleMarkedOnly); label != "" {
			hint += fmt.Sprintf(" Press %s to show all questions.", label)
		}
		lines = append(lines, styles.TextMutedStyle.Render(hint))
	}

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m Model) renderFooter(w int) string {
	position := "Question 0 / 0"
	if !m.quiz.Empty() {
		position = fmt.Sprintf("Question %d / %d", m.quiz.Position()+1, m.quiz.Len())
	}
	left := styles.TextForegroundBoldStyle.Render(position)

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, styles.TextPrimaryStyle.Render(b.Help().Key)+" "+b.Help().Desc)
	}
	right := styles.FooterStyle.Render(strings.Join(hints, iconSeparator))

	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}
