package pullview

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
	"github.com/xqrs/pullview/keybind"
)

// ListItem is a row primitive that knows its height for a given width.
type ListItem interface {
	Primitive
	Height(width int) int
}

// ListBuilder returns the item at index, or nil when index is past the end.
// The cursor is passed so builders can style the selected row.
type ListBuilder func(index int, cursor int) ListItem

// ListKeyMap holds the navigation bindings of a List.
type ListKeyMap struct {
	Up       keybind.Keybind
	Down     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Home     keybind.Keybind
	End      keybind.Keybind
}

func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up:       keybind.NewKeybind(keybind.WithKeys("up", "k"), keybind.WithHelp("↑/k", "up")),
		Down:     keybind.NewKeybind(keybind.WithKeys("down", "j"), keybind.WithHelp("↓/j", "down")),
		PageUp:   keybind.NewKeybind(keybind.WithKeys("pgup"), keybind.WithHelp("pgup", "page up")),
		PageDown: keybind.NewKeybind(keybind.WithKeys("pgdn"), keybind.WithHelp("pgdn", "page down")),
		Home:     keybind.NewKeybind(keybind.WithKeys("home", "g"), keybind.WithHelp("home/g", "first")),
		End:      keybind.NewKeybind(keybind.WithKeys("end"), keybind.WithHelp("end", "last")),
	}
}

// List displays a virtual list of items produced on demand by a builder. It
// scrolls line by line and tracks whether its content currently touches the
// top or bottom of the viewport.
type List struct {
	*Box

	KeyMap ListKeyMap

	builder  ListBuilder
	gap      int
	trackEnd bool

	cursor int
	// Index of the first visible item and the number of its rows scrolled
	// out above the viewport.
	top, offset int
	// Scroll delta in rows applied on the next draw.
	pending int
	// Bring the cursor into view on the next draw.
	followCursor bool

	atTop, atEnd bool

	changed  func(index int)
	scrolled func(first, visible int)

	lastDraw  []listDrawnItem
	lastRect  rect
	lastFirst int
	lastCount int
}

type listDrawnItem struct {
	index  int
	item   ListItem
	row    int
	height int
}

// NewList returns an empty list.
func NewList() *List {
	return &List{
		Box:       NewBox(),
		KeyMap:    DefaultListKeyMap(),
		cursor:    -1,
		atTop:     true,
		atEnd:     true,
		lastFirst: -1,
	}
}

// SetBuilder sets the builder used to create items on demand.
func (l *List) SetBuilder(builder ListBuilder) *List {
	l.builder = builder
	l.MarkDirty()
	return l
}

// Clear drops the builder and resets the cursor and scroll position.
func (l *List) Clear() *List {
	l.builder = nil
	l.cursor = -1
	l.top, l.offset, l.pending = 0, 0, 0
	l.followCursor = false
	l.lastDraw = nil
	l.atTop, l.atEnd = true, true
	l.MarkDirty()
	return l
}

// SetGap sets the number of blank rows between items.
func (l *List) SetGap(gap int) *List {
	gap = max(gap, 0)
	if l.gap != gap {
		l.gap = gap
		l.MarkDirty()
	}
	return l
}

// SetTrackEnd keeps the view pinned to the end while it is already there, so
// appended pages scroll into view.
func (l *List) SetTrackEnd(track bool) *List {
	if l.trackEnd != track {
		l.trackEnd = track
		l.MarkDirty()
	}
	return l
}

// SetChangedFunc sets a handler called when the cursor moves.
func (l *List) SetChangedFunc(handler func(index int)) *List {
	l.changed = handler
	return l
}

// SetScrolledFunc sets a handler called after a draw that changed the first
// visible item or the number of visible items.
func (l *List) SetScrolledFunc(handler func(first, visible int)) *List {
	l.scrolled = handler
	return l
}

func (l *List) Cursor() int {
	return l.cursor
}

// SetCursor selects index and scrolls it into view.
func (l *List) SetCursor(index int) *List {
	index = max(index, -1)
	if l.cursor == index {
		return l
	}
	l.cursor = index
	l.followCursor = index >= 0
	l.MarkDirty()
	if l.changed != nil {
		l.changed(index)
	}
	return l
}

// AtTop reports whether the first item starts at the top of the viewport, as
// of the last draw.
func (l *List) AtTop() bool {
	return l.atTop
}

// AtBottom reports whether the last item ends inside the viewport, as of the
// last draw. A list shorter than its viewport is at the top and the bottom.
func (l *List) AtBottom() bool {
	return l.atEnd
}

// Scroll queues a scroll by rows. Positive values scroll toward the end.
func (l *List) Scroll(rows int) *List {
	if rows != 0 {
		l.pending += rows
		l.MarkDirty()
	}
	return l
}

// ScrollToStart moves the view to the first item without touching the cursor.
func (l *List) ScrollToStart() *List {
	l.top, l.offset, l.pending = 0, 0, 0
	l.followCursor = false
	l.MarkDirty()
	return l
}

// ScrollToEnd moves the view so the last item is at the bottom.
func (l *List) ScrollToEnd() *List {
	_, _, width, height := l.GetInnerRect()
	if width <= 0 || height <= 0 {
		return l
	}
	l.top, l.offset = l.endPosition(width, height)
	l.pending = 0
	l.followCursor = false
	l.MarkDirty()
	return l
}

// ItemCount returns the number of items the builder produces. It walks the
// builder, so avoid calling it per frame on large lists.
func (l *List) ItemCount() int {
	n := 0
	for l.item(n) != nil {
		n++
	}
	return n
}

func (l *List) NextItem() bool {
	if l.item(l.cursor+1) == nil {
		return false
	}
	l.SetCursor(l.cursor + 1)
	return true
}

func (l *List) PrevItem() bool {
	if l.cursor <= 0 {
		return false
	}
	l.SetCursor(l.cursor - 1)
	return true
}

func (l *List) item(index int) ListItem {
	if l.builder == nil || index < 0 {
		return nil
	}
	return l.builder(index, l.cursor)
}

func (l *List) itemHeight(item ListItem, width int) int {
	return max(item.Height(width), 1)
}

// span is the number of rows an item and its trailing gap occupy.
func (l *List) span(index, width int) int {
	item := l.item(index)
	if item == nil {
		return 0
	}
	return l.itemHeight(item, width) + l.gap
}

// normalize folds offset into top so that 0 <= offset < span(top).
func (l *List) normalize(width int) {
	for l.offset < 0 {
		if l.top == 0 {
			l.offset = 0
			return
		}
		l.top--
		l.offset += l.span(l.top, width)
	}
	for l.top > 0 && l.item(l.top) == nil {
		l.top--
		l.offset = 0
	}
	for {
		span := l.span(l.top, width)
		if span == 0 || l.offset < span || l.item(l.top+1) == nil {
			return
		}
		l.offset -= span
		l.top++
	}
}

// endPosition returns the top and offset that put the last item at the
// bottom of a viewport of the given size.
func (l *List) endPosition(width, height int) (int, int) {
	last := max(l.top, 0)
	for l.item(last+1) != nil {
		last++
	}
	if l.item(last) == nil {
		return 0, 0
	}
	total := 0
	for i := last; i >= 0; i-- {
		rows := l.itemHeight(l.item(i), width)
		if i != last {
			rows += l.gap
		}
		if total+rows >= height {
			return i, total + rows - height
		}
		total += rows
	}
	return 0, 0
}

// revealCursor adjusts top and offset so the cursor item is fully visible.
func (l *List) revealCursor(width, height int) {
	if l.item(l.cursor) == nil {
		return
	}
	if l.cursor < l.top || (l.cursor == l.top && l.offset > 0) {
		l.top, l.offset = l.cursor, 0
		return
	}
	bottom := -l.offset
	for i := l.top; i <= l.cursor; i++ {
		bottom += l.itemHeight(l.item(i), width)
		if i < l.cursor {
			bottom += l.gap
		}
	}
	if bottom > height {
		l.offset += bottom - height
		l.normalize(width)
	}
}

func (l *List) IsDirty() bool {
	if l.Box.IsDirty() {
		return true
	}
	for _, child := range l.lastDraw {
		if child.item.IsDirty() {
			return true
		}
	}
	return false
}

func (l *List) MarkClean() {
	l.Box.MarkClean()
	for _, child := range l.lastDraw {
		child.item.MarkClean()
	}
}

func (l *List) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	l.UpdateView()
	children := l.lastDraw
	if len(children) == 0 {
		return
	}
	r := l.lastRect
	clipped := newClippedScreen(screen, r.x, r.y, r.width, r.height)
	for _, child := range children {
		bindDirtyParent(child.item, l.Box)
		child.item.SetRect(r.x, r.y+child.row, r.width, child.height)
		child.item.Draw(clipped)
	}
	l.notifyScrolled(children[0].index, len(children))
}

// UpdateView applies pending scrolling and lays out the visible items for
// the current rect without drawing. AtTop and AtBottom reflect the result.
// Handlers call it to learn where a scroll ended before the next frame.
func (l *List) UpdateView() {
	x, y, width, height := l.GetInnerRect()
	l.lastRect = rect{x: x, y: y, width: width, height: height}
	if width <= 0 || height <= 0 || l.item(0) == nil {
		l.lastDraw = nil
		l.top, l.offset, l.pending = 0, 0, 0
		l.atTop, l.atEnd = true, true
		l.notifyScrolled(-1, 0)
		return
	}

	if l.trackEnd && l.atEnd && l.pending == 0 && !l.followCursor {
		l.top, l.offset = l.endPosition(width, height)
	}
	l.offset += l.pending
	l.pending = 0
	l.normalize(width)
	if l.followCursor {
		l.revealCursor(width, height)
		l.followCursor = false
	}

	children, endReached := l.layout(width, height)
	last := children[len(children)-1]
	if endReached && last.row+last.height < height && (l.top > 0 || l.offset > 0) {
		// Scrolled past the end: pull the content back down.
		l.top, l.offset = l.endPosition(width, height)
		children, endReached = l.layout(width, height)
		last = children[len(children)-1]
	}

	l.atTop = l.top == 0 && l.offset == 0
	l.atEnd = endReached && last.row+last.height <= height
	l.lastDraw = children
}

// layout places items from the current scroll position until the viewport
// is filled. endReached reports whether the builder ran out of items.
func (l *List) layout(width, height int) (children []listDrawnItem, endReached bool) {
	row := -l.offset
	for i := l.top; row < height; i++ {
		item := l.item(i)
		if item == nil {
			return children, true
		}
		h := l.itemHeight(item, width)
		children = append(children, listDrawnItem{index: i, item: item, row: row, height: h})
		row += h + l.gap
	}
	return children, l.item(children[len(children)-1].index+1) == nil
}

func (l *List) notifyScrolled(first, visible int) {
	if first == l.lastFirst && visible == l.lastCount {
		return
	}
	l.lastFirst, l.lastCount = first, visible
	if l.scrolled != nil {
		l.scrolled(first, visible)
	}
}

// InputHandler moves the cursor and pages through the list.
func (l *List) InputHandler(event *tcell.EventKey) Command {
	_, _, _, height := l.GetInnerRect()
	height = max(height, 1)

	switch {
	case keybind.Matches(event, l.KeyMap.Down):
		l.NextItem()
	case keybind.Matches(event, l.KeyMap.Up):
		l.PrevItem()
	case keybind.Matches(event, l.KeyMap.PageDown):
		l.Scroll(height)
	case keybind.Matches(event, l.KeyMap.PageUp):
		l.Scroll(-height)
	case keybind.Matches(event, l.KeyMap.Home):
		l.SetCursor(0)
		l.ScrollToStart()
	case keybind.Matches(event, l.KeyMap.End):
		l.ScrollToEnd()
	default:
		return nil
	}
	return RedrawCommand{}
}

// MouseHandler selects rows on click and scrolls on the wheel.
func (l *List) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	if !l.InRect(x, y) {
		return nil, nil
	}

	switch action {
	case MouseLeftClick:
		if index := l.indexAtPoint(x, y); index >= 0 {
			l.SetCursor(index)
		}
		return nil, BatchCommand{SetFocusCommand{Target: l}, RedrawCommand{}}
	case MouseScrollUp:
		l.Scroll(-3)
		return nil, RedrawCommand{}
	case MouseScrollDown:
		l.Scroll(3)
		return nil, RedrawCommand{}
	}
	return nil, nil
}

func (l *List) indexAtPoint(x, y int) int {
	r := l.lastRect
	if !r.contains(x, y) {
		return -1
	}
	row := y - r.y
	for _, child := range l.lastDraw {
		if row >= child.row && row < child.row+child.height+l.gap {
			return child.index
		}
	}
	return -1
}

var _ Primitive = &List{}

// clippedScreen drops writes outside a rectangle so partially visible items
// can draw themselves without bleeding into neighbours.
type clippedScreen struct {
	tcell.Screen
	x, y, width, height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{Screen: screen, x: x, y: y, width: width, height: height}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if s.inBounds(x, y) {
		s.Screen.SetContent(x, y, primary, combining, style)
	}
}

func (s *clippedScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if !s.inBounds(x, y) {
		return str, 0
	}
	return s.Screen.Put(x, y, str, style)
}

func (s *clippedScreen) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, tcell.StyleDefault)
}

func (s *clippedScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	if y < s.y || y >= s.y+s.height {
		return
	}
	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if x >= s.x+s.width {
			return
		}
		if x >= s.x && x+width <= s.x+s.width {
			s.Screen.Put(x, y, cluster, style)
		}
		x += width
	}
}

func (s *clippedScreen) ShowCursor(x int, y int) {
	if !s.inBounds(x, y) {
		s.Screen.ShowCursor(-1, -1)
		return
	}
	s.Screen.ShowCursor(x, y)
}
