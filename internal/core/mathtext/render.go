package mathtext

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog/log"
)

// Renderer turns question text into terminal-ready output at a given width.
type Renderer interface {
	Render(text string, width int) string
}

// Plain converts math markup and word-wraps the result without any styling.
type Plain struct{}

func (Plain) Render(text string, width int) string {
	out := Convert(text)
	if width > 0 {
		out = wordwrap.String(out, width)
	}
	return out
}

// Verbatim word-wraps text and leaves math markup as written.
type Verbatim struct{}

func (Verbatim) Render(text string, width int) string {
	if width > 0 {
		return wordwrap.String(text, width)
	}
	return text
}

// Glamour converts math markup and renders the result as markdown. Renderers
// are cached per width. Any glamour failure falls back to Plain output.
type Glamour struct {
	style glamouransi.StyleConfig

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// NewGlamour returns a renderer using the given glamour style.
func NewGlamour(style glamouransi.StyleConfig) *Glamour {
	noMargin := uint(0)
	style.Document.Margin = &noMargin
	return &Glamour{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

func (g *Glamour) Render(text string, width int) string {
	converted := Convert(text)

	r, err := g.renderer(width)
	if err != nil {
		log.Debug().Err(err).Int("width", width).Msg("glamour renderer unavailable, using plain text")
		return Plain{}.Render(text, width)
	}

	out, err := r.Render(converted)
	if err != nil {
		log.Debug().Err(err).Msg("glamour render failed, using plain text")
		return Plain{}.Render(text, width)
	}

	return strings.Trim(out, "\n")
}

func (g *Glamour) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 10 {
		width = 10
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.cache[width]; ok {
		return r, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(g.style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	g.cache[width] = r
	return r, nil
}
