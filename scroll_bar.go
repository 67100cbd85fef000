package pullview

import "github.com/gdamore/tcell/v3"

// subcell is the number of steps a thumb end can take inside one cell.
const subcell = 8

// ScrollBarGlyphs are the glyphs of a vertical scroll bar. Lower[n] fills the
// bottom n+1 eighths of a cell and Upper[n] the top n+1 eighths.
type ScrollBarGlyphs struct {
	Track string
	Lower [subcell]string
	Upper [subcell]string
}

// DefaultScrollBarGlyphs uses block elements only, so that any terminal font
// can render the thumb.
func DefaultScrollBarGlyphs() ScrollBarGlyphs {
	return ScrollBarGlyphs{
		Track: "│",
		Lower: [subcell]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		Upper: [subcell]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},
	}
}

// ScrollBar shows which part of a list is on screen. Positions count items,
// not rows, so the thumb follows the scrolled callback of a List.
type ScrollBar struct {
	*Box

	first   int
	visible int
	total   int

	autoHide   bool
	glyphs     ScrollBarGlyphs
	trackStyle tcell.Style
	thumbStyle tcell.Style
}

func NewScrollBar() *ScrollBar {
	background := tcell.StyleDefault.Background(Styles.PrimitiveBackgroundColor)
	return &ScrollBar{
		Box:        NewBox(),
		autoHide:   true,
		glyphs:     DefaultScrollBarGlyphs(),
		trackStyle: background.Foreground(Styles.BorderColor).Dim(true),
		thumbStyle: background.Foreground(Styles.ScrollBarColor),
	}
}

// SetPosition sets the first visible item, the number of visible items and
// the item count.
func (s *ScrollBar) SetPosition(first, visible, total int) *ScrollBar {
	first, visible, total = max(first, 0), max(visible, 0), max(total, 0)
	if first != s.first || visible != s.visible || total != s.total {
		s.first, s.visible, s.total = first, visible, total
		s.MarkDirty()
	}
	return s
}

// Position returns the values of the last SetPosition.
func (s *ScrollBar) Position() (first, visible, total int) {
	return s.first, s.visible, s.total
}

// SetAutoHide hides the bar while every item fits on screen.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	if s.autoHide != autoHide {
		s.autoHide = autoHide
		s.MarkDirty()
	}
	return s
}

func (s *ScrollBar) SetGlyphs(glyphs ScrollBarGlyphs) *ScrollBar {
	s.glyphs = glyphs
	s.MarkDirty()
	return s
}

// Scrollable reports whether some items are off screen.
func (s *ScrollBar) Scrollable() bool {
	return s.total > s.visible
}

// thumb places the thumb on a track of cells cells. Start and length are in
// eighths of a cell; the thumb is never shorter than one cell.
func thumb(cells, first, visible, total int) (start, length int) {
	track := cells * subcell
	if track <= 0 {
		return 0, 0
	}
	total = max(total, 1)
	visible = min(max(visible, 1), total)
	last := total - visible
	if last == 0 {
		return 0, track
	}
	first = min(max(first, 0), last)
	length = min(max(track*visible/total, subcell), track)
	return (track - length) * first / last, length
}

// cellGlyph picks the glyph for cell i of a track holding the thumb
// [start, start+length).
func (s *ScrollBar) cellGlyph(i, start, length int) (string, tcell.Style) {
	top, bottom := i*subcell, (i+1)*subcell
	from, to := max(start, top), min(start+length, bottom)
	switch {
	case to <= from:
		return s.glyphs.Track, s.trackStyle
	case to-from == subcell:
		return s.glyphs.Lower[subcell-1], s.thumbStyle
	case from == top:
		return s.glyphs.Upper[to-from-1], s.thumbStyle
	default:
		return s.glyphs.Lower[to-from-1], s.thumbStyle
	}
}

func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)

	x, y, width, height := s.GetInnerRect()
	if width <= 0 || height <= 0 || (s.autoHide && !s.Scrollable()) {
		return
	}
	start, length := thumb(height, s.first, s.visible, s.total)
	for i := range height {
		glyph, style := s.cellGlyph(i, start, length)
		screen.Put(x, y+i, glyph, style)
	}
}

var _ Primitive = &ScrollBar{}
