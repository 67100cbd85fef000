package pullview

const (
	SemigraphicsHorizontalEllipsis = "…"

	ArrowDownGlyph = "↓"
	ArrowUpGlyph   = "↑"
)

// SpinnerFrames are the frames an indicator cycles through while loading.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// BorderSet holds the glyphs a Box draws its border with.
type BorderSet struct {
	Top, Bottom, Left, Right                   string
	TopLeft, TopRight, BottomLeft, BottomRight string
}

// borderSet builds a set from horizontal, vertical and the four corners in
// the order top left, top right, bottom left, bottom right.
func borderSet(horizontal, vertical string, corners [4]string) BorderSet {
	return BorderSet{
		Top:         horizontal,
		Bottom:      horizontal,
		Left:        vertical,
		Right:       vertical,
		TopLeft:     corners[0],
		TopRight:    corners[1],
		BottomLeft:  corners[2],
		BottomRight: corners[3],
	}
}

// BorderSetHidden keeps the border's space but draws nothing in it.
func BorderSetHidden() BorderSet {
	return borderSet(" ", " ", [4]string{" ", " ", " ", " "})
}

func BorderSetPlain() BorderSet {
	return borderSet("─", "│", [4]string{"┌", "┐", "└", "┘"})
}

func BorderSetRound() BorderSet {
	return borderSet("─", "│", [4]string{"╭", "╮", "╰", "╯"})
}

func BorderSetThick() BorderSet {
	return borderSet("━", "┃", [4]string{"┏", "┓", "┗", "┛"})
}

// Borders selects the sides of a Box that get a border.
type Borders uint

const (
	BordersTop Borders = 1 << iota
	BordersBottom
	BordersLeft
	BordersRight

	BordersNone Borders = 0
	BordersAll  Borders = BordersTop | BordersBottom | BordersLeft | BordersRight
)

// Has reports whether any side of flag is set.
func (b Borders) Has(flag Borders) bool {
	return b&flag != 0
}
