package tui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/tui/components"
	"github.com/colonyops/quizdeck/pkg/tuitest"
)

func TestKeyMap_Resolve(t *testing.T) {
	km := NewKeyMap(map[string]string{
		"n":     config.ActionNext,
		"right": config.ActionNext,
		"x":     config.ActionNone,
		"space": config.ActionSelect,
	})

	tests := []struct {
		name   string
		msg    tea.Msg
		action string
		ok     bool
	}{
		{"letter", tuitest.KeyText('n'), config.ActionNext, true},
		{"arrow", tuitest.KeyRight(), config.ActionNext, true},
		{"space", tuitest.KeySpace(), config.ActionSelect, true},
		{"none drops binding", tuitest.KeyText('x'), "", false},
		{"unbound", tuitest.KeyText('z'), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := km.Resolve(tt.msg.(tea.KeyPressMsg))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestKeyMap_Labels(t *testing.T) {
	km := NewKeyMap(map[string]string{
		"right": config.ActionNext,
		"n":     config.ActionNext,
		"?":     config.ActionHelp,
	})

	assert.Equal(t, "n", km.Label(config.ActionNext))
	assert.Equal(t, "", km.Label(config.ActionQuit))

	short := km.ShortHelp()
	if assert.Len(t, short, 2) {
		assert.Equal(t, "n/→", short[0].Help().Key)
		assert.Equal(t, "next question", short[0].Help().Desc)
	}
}

func TestKeyMap_HelpSections(t *testing.T) {
	cfg, err := config.Load("", t.TempDir())
	assert.NoError(t, err)

	sections := NewKeyMap(cfg.Keybindings).HelpSections()

	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Navigation", "Answering", "Marks", "View", "General"}, titles)
	assert.Contains(t, sections[1].Entries, components.HelpEntry{Key: "1-9", Desc: "select choice by number"})
}
