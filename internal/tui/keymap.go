package tui

import (
	"cmp"
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/tui/components"
)

var actionHelp = map[string]string{
	config.ActionQuit:              "quit",
	config.ActionHelp:              "help",
	config.ActionNext:              "next question",
	config.ActionPrev:              "previous question",
	config.ActionNextLecture:       "next lecture",
	config.ActionPrevLecture:       "previous lecture",
	config.ActionJumpLecture:       "jump to lecture",
	config.ActionCursorUp:          "cursor up",
	config.ActionCursorDown:        "cursor down",
	config.ActionSelect:            "select choice",
	config.ActionCheck:             "check answer",
	config.ActionReveal:            "reveal answers",
	config.ActionDescription:       "show details",
	config.ActionToggleMark:        "mark question",
	config.ActionToggleMarkedOnly:  "marked only",
	config.ActionToggleRandom:      "random order",
	config.ActionToggleHideAnswers: "hide answers",
	config.ActionToggleTheme:       "light/dark theme",
	config.ActionResetQuiz:         "reset quiz",
	config.ActionResetMarks:        "clear all marks",
}

var helpSections = []struct {
	title   string
	actions []string
}{
	{"Navigation", []string{
		config.ActionNext, config.ActionPrev,
		config.ActionNextLecture, config.ActionPrevLecture, config.ActionJumpLecture,
	}},
	{"Answering", []string{
		config.ActionCursorUp, config.ActionCursorDown, config.ActionSelect,
		config.ActionCheck, config.ActionReveal, config.ActionDescription,
	}},
	{"Marks", []string{
		config.ActionToggleMark, config.ActionToggleMarkedOnly, config.ActionResetMarks,
	}},
	{"View", []string{
		config.ActionToggleRandom, config.ActionToggleHideAnswers,
		config.ActionToggleTheme, config.ActionResetQuiz,
	}},
	{"General", []string{config.ActionHelp, config.ActionQuit}},
}

// footerActions are shown as hints in the footer, in order.
var footerActions = []string{
	config.ActionNext,
	config.ActionPrev,
	config.ActionCheck,
	config.ActionToggleMark,
	config.ActionHelp,
	config.ActionQuit,
}

var keyLabels = map[string]string{
	"left":  "←",
	"right": "→",
	"up":    "↑",
	"down":  "↓",
}

// KeyMap resolves key presses to configured actions.
type KeyMap struct {
	actions  []string // sorted, for deterministic matching
	bindings map[string]key.Binding
}

// NewKeyMap builds bindings from a key -> action map. Keys bound to "none"
// are dropped.
func NewKeyMap(keybindings map[string]string) *KeyMap {
	keysByAction := make(map[string][]string)
	for k, action := range keybindings {
		if action == config.ActionNone {
			continue
		}
		keysByAction[action] = append(keysByAction[action], k)
	}

	km := &KeyMap{bindings: make(map[string]key.Binding, len(keysByAction))}
	for action, keys := range keysByAction {
		slices.SortFunc(keys, func(a, b string) int {
			return cmp.Or(cmp.Compare(len(a), len(b)), cmp.Compare(a, b))
		})

		labels := make([]string, len(keys))
		for i, k := range keys {
			labels[i] = cmp.Or(keyLabels[k], k)
		}

		km.bindings[action] = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(labels, "/"), actionHelp[action]),
		)
		km.actions = append(km.actions, action)
	}
	slices.Sort(km.actions)

	return km
}

// Resolve returns the action bound to msg.
func (km *KeyMap) Resolve(msg tea.KeyPressMsg) (string, bool) {
	for _, action := range km.actions {
		if key.Matches(msg, km.bindings[action]) {
			return action, true
		}
	}
	return "", false
}

// Label returns the display label of the first key bound to action, or ""
// when the action is unbound.
func (km *KeyMap) Label(action string) string {
	b, ok := km.bindings[action]
	if !ok {
		return ""
	}
	label, _, _ := strings.Cut(b.Help().Key, "/")
	return label
}

// ShortHelp returns the bindings shown in the footer.
func (km *KeyMap) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(footerActions))
	for _, action := range footerActions {
		if b, ok := km.bindings[action]; ok {
			out = append(out, b)
		}
	}
	return out
}

// HelpSections returns the help dialog content for every bound action.
func (km *KeyMap) HelpSections() []components.HelpDialogSection {
	sections := make([]components.HelpDialogSection, 0, len(helpSections))
	for _, s := range helpSections {
		section := components.HelpDialogSection{Title: s.title}
		for _, action := range s.actions {
			b, ok := km.bindings[action]
			if !ok {
				continue
			}
			section.Entries = append(section.Entries, components.HelpEntry{
				Key:  b.Help().Key,
				Desc: b.Help().Desc,
			})
		}
		if s.title == "Answering" {
			section.Entries = append(section.Entries, components.HelpEntry{Key: "1-9", Desc: "select choice by number"})
		}
		if len(section.Entries) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}
