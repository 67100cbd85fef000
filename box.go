package pullview

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v3"
)

type rect struct {
	x, y, width, height int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.width && y >= r.y && y < r.y+r.height
}

// Box is the base of every primitive in this package. It owns the rectangle,
// an optional border with a title, the focus state and the dirty flag used to
// skip redundant redraws. Box itself draws no content.
type Box struct {
	outer rect
	// Top, bottom, left, right.
	padding [4]int

	background tcell.Color
	borders    Borders
	borderSet  BorderSet
	title      string
	titleAlign Alignment

	focused bool

	dirty atomic.Bool
	// parent is marked dirty together with the box, so that containers notice
	// changes in their children.
	parent atomic.Pointer[Box]
}

// NewBox returns a borderless box.
func NewBox() *Box {
	b := &Box{
		outer:      rect{width: 15, height: 10},
		background: Styles.PrimitiveBackgroundColor,
		borderSet:  BorderSetPlain(),
		titleAlign: AlignmentCenter,
	}
	b.dirty.Store(true)
	return b
}

func (b *Box) GetRect() (int, int, int, int) {
	return b.outer.x, b.outer.y, b.outer.width, b.outer.height
}

func (b *Box) SetRect(x, y, width, height int) {
	if r := (rect{x, y, width, height}); r != b.outer {
		b.outer = r
		b.MarkDirty()
	}
}

// GetInnerRect returns the rectangle left for content once the border, the
// title row and the padding are taken away. Sizes never go negative.
func (b *Box) GetInnerRect() (int, int, int, int) {
	r := b.outer
	top, bottom, left, right := b.padding[0], b.padding[1], b.padding[2], b.padding[3]
	if b.borders.Has(BordersTop) || b.title != "" {
		top++
	}
	if b.borders.Has(BordersBottom) {
		bottom++
	}
	if b.borders.Has(BordersLeft) {
		left++
	}
	if b.borders.Has(BordersRight) {
		right++
	}
	return r.x + left, r.y + top, max(r.width-left-right, 0), max(r.height-top-bottom, 0)
}

// InRect reports whether (x, y) lies inside the box.
func (b *Box) InRect(x, y int) bool {
	return b.outer.contains(x, y)
}

func (b *Box) SetBorderPadding(top, bottom, left, right int) *Box {
	if p := [4]int{top, bottom, left, right}; p != b.padding {
		b.padding = p
		b.MarkDirty()
	}
	return b
}

func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	if b.background != color {
		b.background = color
		b.MarkDirty()
	}
	return b
}

func (b *Box) SetBorders(borders Borders) *Box {
	if b.borders != borders {
		b.borders = borders
		b.MarkDirty()
	}
	return b
}

func (b *Box) SetBorderSet(set BorderSet) *Box {
	b.borderSet = set
	b.MarkDirty()
	return b
}

// SetTitle sets the text drawn over the top border. A title takes the top
// row even without a border.
func (b *Box) SetTitle(title string) *Box {
	if b.title != title {
		b.title = title
		b.MarkDirty()
	}
	return b
}

func (b *Box) SetTitleAlignment(alignment Alignment) *Box {
	b.titleAlign = alignment
	b.MarkDirty()
	return b
}

func (b *Box) IsDirty() bool {
	return b.dirty.Load()
}

// MarkDirty flags the box for redraw. The parent is only told on the clean
// to dirty edge.
func (b *Box) MarkDirty() {
	if b.dirty.Swap(true) {
		return
	}
	if parent := b.parent.Load(); parent != nil {
		parent.MarkDirty()
	}
}

func (b *Box) MarkClean() {
	b.dirty.Store(false)
}

func (b *Box) setDirtyParent(parent *Box) {
	if parent != b {
		b.parent.Store(parent)
	}
}

// bindDirtyParent makes child mark parent dirty whenever it turns dirty.
// Primitives that do not embed a Box are left alone.
func bindDirtyParent(child Primitive, parent *Box) {
	setter, ok := child.(interface{ setDirtyParent(*Box) })
	if ok && parent != nil {
		setter.setDirtyParent(parent)
	}
}

func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

func (b *Box) PasteHandler(text string) Command {
	return nil
}

// MouseHandler focuses the box on a left press inside it.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

func (b *Box) Focus(delegate func(p Primitive)) {
	if !b.focused {
		b.focused = true
		b.MarkDirty()
	}
}

func (b *Box) Blur() {
	if b.focused {
		b.focused = false
		b.MarkDirty()
	}
}

func (b *Box) HasFocus() bool {
	return b.focused
}

func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass paints the background, the border and the title of p,
// the primitive embedding this box. Focused boxes draw their border bold.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	r := b.outer
	if r.width <= 0 || r.height <= 0 {
		return
	}

	background := tcell.StyleDefault.Background(b.background)
	for y := r.y; y < r.y+r.height; y++ {
		fillRow(screen, r.x, y, r.width, background)
	}

	style := background.Foreground(Styles.BorderColor)
	if p.HasFocus() {
		style = style.Bold(true)
	}
	if b.borders != BordersNone && r.width >= 2 && r.height >= 2 {
		b.drawBorder(screen, style)
	}
	if b.title != "" && r.width >= 4 {
		title := TruncateString(b.title, r.width-2)
		PrintWithStyle(screen, title, r.x+1, r.y, r.width-2, b.titleAlign, background.Foreground(Styles.TitleColor))
	}
}

func (b *Box) drawBorder(screen tcell.Screen, style tcell.Style) {
	r, set := b.outer, b.borderSet
	left, top := r.x, r.y
	right, bottom := r.x+r.width-1, r.y+r.height-1

	edges := []struct {
		side   Borders
		glyph  string
		fixed  int
		from   int
		to     int
		across bool
	}{
		{BordersTop, set.Top, top, left + 1, right, true},
		{BordersBottom, set.Bottom, bottom, left + 1, right, true},
		{BordersLeft, set.Left, left, top + 1, bottom, false},
		{BordersRight, set.Right, right, top + 1, bottom, false},
	}
	for _, e := range edges {
		if !b.borders.Has(e.side) {
			continue
		}
		for i := e.from; i < e.to; i++ {
			if e.across {
				screen.Put(i, e.fixed, e.glyph, style)
			} else {
				screen.Put(e.fixed, i, e.glyph, style)
			}
		}
	}

	corners := []struct {
		sides Borders
		x, y  int
		glyph string
	}{
		{BordersTop | BordersLeft, left, top, set.TopLeft},
		{BordersTop | BordersRight, right, top, set.TopRight},
		{BordersBottom | BordersLeft, left, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, c := range corners {
		if b.borders&c.sides == c.sides {
			screen.Put(c.x, c.y, c.glyph, style)
		}
	}
}
