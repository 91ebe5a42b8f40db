// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported semantic colors of the active palette.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
	ColorMark       color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextPrimaryBoldStyle    lipgloss.Style
	TextPrimaryStyle        lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style

	// TUI shared styles.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	// Quiz view styles.
	HeaderStyle          lipgloss.Style
	BadgeStyle           lipgloss.Style
	BadgeActiveStyle     lipgloss.Style
	SidebarStyle         lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarActiveStyle   lipgloss.Style
	CardStyle            lipgloss.Style
	QuestionTitleStyle   lipgloss.Style
	ChoiceStyle          lipgloss.Style
	ChoiceCursorStyle    lipgloss.Style
	ChoiceSelectedStyle  lipgloss.Style
	ChoiceCorrectStyle   lipgloss.Style
	ChoiceIncorrectStyle lipgloss.Style
	ResultCorrectStyle   lipgloss.Style
	ResultIncorrectStyle lipgloss.Style
	MarkStyle            lipgloss.Style
	FooterStyle          lipgloss.Style
	EmptyStateStyle      lipgloss.Style
	WarningBannerStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorMark = p.Mark

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TextForegroundStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	TextForegroundBoldStyle = TextForegroundStyle.Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Background(ColorBackground).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		PaddingRight(1)
	BadgeStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	BadgeActiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	SidebarStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(ColorSurface).
		PaddingRight(1)
	SidebarItemStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	SidebarActiveStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	QuestionTitleStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	ChoiceStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	ChoiceCursorStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ChoiceSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ChoiceCorrectStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	ChoiceIncorrectStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Strikethrough(true)
	ResultCorrectStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	ResultIncorrectStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
	MarkStyle = lipgloss.NewStyle().
		Foreground(ColorMark).
		Bold(true)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	EmptyStateStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	WarningBannerStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(palettes[DefaultDarkPalette])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active
// palette, starting from glamour's light or dark base style.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if CurrentPalette.Light {
		cfg = glamourstyles.LightStyleConfig
	}

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.Emph.Color = secondary
	cfg.Strong.Color = fg
	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}
