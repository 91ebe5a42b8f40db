// Package tui implements the Bubble Tea TUI for quizdeck.
package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/logging"
	"github.com/colonyops/quizdeck/internal/core/mathtext"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/core/styles"
	"github.com/colonyops/quizdeck/internal/tui/components"
)

// UIState represents which overlay, if any, has input focus.
type UIState int

const (
	stateNormal UIState = iota
	stateShowingHelp
	stateConfirmResetMarks
	statePickingLecture
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)

// MarkSaver persists the full mark set. Saves carry increasing generations
// and a save older than one already written is dropped.
type MarkSaver interface {
	SaveGeneration(ctx context.Context, gen uint64, marks quiz.Marks) (bool, error)
}

// Deps are the collaborators the TUI needs.
type Deps struct {
	Config    *config.Config
	Marks     MarkSaver // optional; marks stay in memory without it
	Questions []quiz.Question
	// InitialMarks is the mark set loaded at startup.
	InitialMarks quiz.Marks
}

// Opts configures startup behavior.
type Opts struct {
	Theme    quiz.Theme // zero uses the configured theme
	Random   bool
	Warnings []string // shown in a banner above the question
	Rand     quiz.Rand
	// Renderer overrides the configured text renderer. A fixed renderer is
	// not rebuilt when the theme changes.
	Renderer mathtext.Renderer
}

// marksSavedMsg reports the result of a fire-and-forget mark save.
type marksSavedMsg struct {
	gen     uint64
	count   int
	written bool
	err     error
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg           *config.Config
	marks         MarkSaver
	saveGen       uint64
	keys          *KeyMap
	renderer      mathtext.Renderer
	fixedRenderer bool
	log           zerolog.Logger

	quiz     quiz.State
	state    UIState
	warnings []string
	width    int
	height   int
	quitting bool

	// choice cursor, reset whenever the displayed question changes
	cursor   int
	cursorID string

	modal       Modal
	helpDialog  *components.HelpDialog
	picker      *components.LecturePicker
	description *components.DescriptionDialog
}

// New creates a TUI model and applies the startup theme.
func New(deps Deps, opts Opts) Model {
	cfg := deps.Config

	theme := opts.Theme
	if !theme.IsValid() {
		theme = cfg.Theme()
	}

	state := quiz.New(deps.Questions, deps.InitialMarks,
		quiz.WithTheme(theme),
		quiz.WithRand(opts.Rand),
	)
	if opts.Random {
		state = state.SetRandom(true)
	}

	m := Model{
		cfg:           cfg,
		marks:         deps.Marks,
		keys:          NewKeyMap(cfg.Keybindings),
		renderer:      opts.Renderer,
		fixedRenderer: opts.Renderer != nil,
		log:           logging.Component("tui"),
		quiz:          state,
		warnings:      opts.Warnings,
	}
	m.applyTheme()
	m.syncCursor()

	return m
}

// State returns the current quiz state.
func (m Model) State() quiz.State {
	return m.quiz
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.description != nil {
			m.description = m.newDescriptionDialog()
		}
		return m, nil
	case marksSavedMsg:
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Uint64("generation", msg.gen).Int("count", msg.count).Msg("mark save failed")
		}
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == keyCtrlC {
		return m.quit()
	}

	switch m.state {
	case stateShowingHelp:
		return m.handleHelpDialogKey(keyStr)
	case stateConfirmResetMarks:
		return m.handleConfirmModalKey(keyStr)
	case statePickingLecture:
		return m.handleLecturePickerKey(keyStr)
	}

	if m.quiz.Interaction().DescriptionOpen() {
		return m.handleDescriptionKey(keyStr)
	}

	if action, ok := m.keys.Resolve(msg); ok {
		return m.runAction(action)
	}

	// Unbound digits pick a choice directly.
	if len(keyStr) == 1 && keyStr[0] >= '1' && keyStr[0] <= '9' {
		return m.selectIndex(int(keyStr[0] - '1'))
	}

	return m, nil
}

func (m Model) handleHelpDialogKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyEsc, "?", "q":
		m.state = stateNormal
		m.helpDialog = nil
	}
	return m, nil
}

func (m Model) handleConfirmModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "left", "right", "h", "l", "tab":
		m.modal.ToggleSelection()
		return m, nil
	case "y":
		return m.closeModal(true)
	case "n", keyEsc:
		return m.closeModal(false)
	case keyEnter:
		return m.closeModal(m.modal.ConfirmSelected())
	}
	return m, nil
}

func (m Model) closeModal(confirmed bool) (tea.Model, tea.Cmd) {
	m.state = stateNormal
	m.modal = Modal{}
	if !confirmed {
		return m, nil
	}
	return m.dispatch(quiz.Action{Type: quiz.ActionResetMarks})
}

func (m Model) handleLecturePickerKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "up", "k":
		m.picker.Up()
	case "down", "j":
		m.picker.Down()
	case keyEnter:
		lecture, ok := m.picker.Selected()
		m.state = stateNormal
		m.picker = nil
		if ok {
			return m.dispatch(quiz.Action{Type: quiz.ActionJumpLecture, Lecture: lecture})
		}
	case keyEsc, "q", m.keys.Label(config.ActionJumpLecture):
		m.state = stateNormal
		m.picker = nil
	}
	return m, nil
}

func (m Model) handleDescriptionKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "up", "k":
		m.description.ScrollUp()
		return m, nil
	case "down", "j":
		m.description.ScrollDown()
		return m, nil
	case keyEsc, "q", m.keys.Label(config.ActionDescription):
		m.description = nil
		return m.dispatch(quiz.Action{Type: quiz.ActionCloseDescription})
	}
	return m, nil
}

// runAction executes a configured action in the normal state.
func (m Model) runAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case config.ActionQuit:
		return m.quit()
	case config.ActionHelp:
		m.helpDialog = components.NewHelpDialog("Keyboard Shortcuts", m.keys.HelpSections())
		m.state = stateShowingHelp
		return m, nil
	case config.ActionNext:
		return m.dispatch(quiz.Action{Type: quiz.ActionNext})
	case config.ActionPrev:
		return m.dispatch(quiz.Action{Type: quiz.ActionPrev})
	case config.ActionNextLecture:
		return m.dispatch(quiz.Action{Type: quiz.ActionNextLecture})
	case config.ActionPrevLecture:
		return m.dispatch(quiz.Action{Type: quiz.ActionPrevLecture})
	case config.ActionJumpLecture:
		return m.openLecturePicker()
	case config.ActionCursorUp:
		m.moveCursor(-1)
		return m, nil
	case config.ActionCursorDown:
		m.moveCursor(1)
		return m, nil
	case config.ActionSelect:
		return m.selectIndex(m.cursor)
	case config.ActionCheck:
		return m.dispatch(quiz.Action{Type: quiz.ActionCheckAnswer})
	case config.ActionReveal:
		return m.dispatch(quiz.Action{Type: quiz.ActionRevealAnswers})
	case config.ActionDescription:
		return m.openDescription()
	case config.ActionToggleMark:
		return m.dispatch(quiz.Action{Type: quiz.ActionToggleMark})
	case config.ActionToggleMarkedOnly:
		return m.dispatch(quiz.Action{Type: quiz.ActionToggleMarkedOnly})
	case config.ActionToggleRandom:
		return m.dispatch(quiz.Action{Type: quiz.ActionToggleRandom})
	case config.ActionToggleHideAnswers:
		return m.dispatch(quiz.Action{Type: quiz.ActionToggleHideAnswers})
	case config.ActionToggleTheme:
		next, cmd := m.dispatch(quiz.Action{Type: quiz.ActionToggleTheme})
		next.applyTheme()
		return next, cmd
	case config.ActionResetQuiz:
		return m.dispatch(quiz.Action{Type: quiz.ActionResetQuiz})
	case config.ActionResetMarks:
		if m.quiz.Marks().Len() == 0 {
			return m, nil
		}
		m.modal = NewModal("Clear marks", fmt.Sprintf("Remove all %d marked question(s)?", m.quiz.Marks().Len()))
		m.state = stateConfirmResetMarks
		return m, nil
	}
	return m, nil
}

// dispatch applies a to the quiz state and runs the requested effects.
func (m Model) dispatch(a quiz.Action) (Model, tea.Cmd) {
	next, effects := quiz.Apply(m.quiz, a)
	m.quiz = next
	m.syncCursor()

	m.log.Debug().
		Str("action", string(a.Type)).
		Int("position", next.Position()).
		Int("derived", next.Len()).
		Msg("action applied")

	if effects.SaveMarks {
		m.saveGen++
		return m, m.saveMarks(m.saveGen, next.Marks())
	}
	return m, nil
}

// saveMarks writes the set in the background. The result is reported back
// as a marksSavedMsg and never retried. gen orders the writes, since each
// command runs on its own goroutine.
func (m Model) saveMarks(gen uint64, marks quiz.Marks) tea.Cmd {
	if m.marks == nil {
		return nil
	}
	saver := m.marks
	return func() tea.Msg {
		written, err := saver.SaveGeneration(context.Background(), gen, marks)
		return marksSavedMsg{gen: gen, count: marks.Len(), written: written, err: err}
	}
}

func (m Model) selectIndex(i int) (tea.Model, tea.Cmd) {
	q, ok := m.quiz.Current()
	if !ok || i < 0 || i >= len(q.Choices) {
		return m, nil
	}
	next, cmd := m.dispatch(quiz.Action{Type: quiz.ActionSelectChoice, Choice: q.Choices[i]})
	if _, selected := next.quiz.Interaction().Selected(); selected {
		next.cursor = i
	}
	return next, cmd
}

func (m *Model) moveCursor(delta int) {
	q, ok := m.quiz.Current()
	if !ok || len(q.Choices) == 0 || !m.quiz.ChoicesVisible() {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(q.Choices)-1)
}

// syncCursor resets the choice cursor when the displayed question changed.
func (m *Model) syncCursor() {
	q, _ := m.quiz.Current()
	if q.ID != m.cursorID {
		m.cursor = 0
		m.cursorID = q.ID
	}
}

func (m Model) openLecturePicker() (tea.Model, tea.Cmd) {
	q, ok := m.quiz.Current()
	if !ok {
		return m, nil
	}
	m.picker = components.NewLecturePicker(m.quiz.Lectures(), q.Lecture)
	m.state = statePickingLecture
	return m, nil
}

func (m Model) openDescription() (tea.Model, tea.Cmd) {
	next, cmd := m.dispatch(quiz.Action{Type: quiz.ActionOpenDescription})
	if next.quiz.Interaction().DescriptionOpen() {
		next.description = next.newDescriptionDialog()
	}
	return next, cmd
}

func (m Model) newDescriptionDialog() *components.DescriptionDialog {
	q, _ := m.quiz.Current()
	w, h := m.size()
	renderer := m.renderer
	return components.NewDescriptionDialog("Details", func(width int) string {
		return renderer.Render(q.Description, width)
	}, w, h)
}

// applyTheme activates the palette for the current theme and rebuilds the
// text renderer so it picks up the new colors.
func (m *Model) applyTheme() {
	theme := m.quiz.Theme()
	styles.SetTheme(styles.ResolvePalette(m.cfg.PaletteName(theme), theme == quiz.ThemeLight))

	if !m.fixedRenderer {
		m.renderer = newRenderer(m.cfg)
	}
	if m.description != nil {
		m.description = m.newDescriptionDialog()
	}
}

func newRenderer(cfg *config.Config) mathtext.Renderer {
	if !cfg.MathEnabled() {
		return mathtext.Verbatim{}
	}
	return mathtext.NewGlamour(styles.GlamourStyle())
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	return w, h
}
