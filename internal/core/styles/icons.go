package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconMarked   = "★"
	IconUnmarked = "☆"
	IconCursor   = "›"
	IconRadioOn  = "◉"
	IconRadioOff = "○"
	IconCheck    = "✓"
	IconCross    = "✗"
	IconShuffle  = "⤮"
	IconLecture  = "§"
)
