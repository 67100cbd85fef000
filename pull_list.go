package pullview

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/pullview/keybind"
	"github.com/xqrs/pullview/pull"
)

// SpinnerInterval is the time between two spinner frames of a loading
// indicator.
var SpinnerInterval = 100 * time.Millisecond

var pullListIDs atomic.Uint64

// PullKeyMap holds the bindings a PullList handles on top of its list's.
type PullKeyMap struct {
	Refresh  keybind.Keybind
	LoadMore keybind.Keybind
}

func DefaultPullKeyMap() PullKeyMap {
	return PullKeyMap{
		Refresh:  keybind.NewKeybind(keybind.WithKeys("r", "ctrl+r"), keybind.WithHelp("r", "refresh")),
		LoadMore: keybind.NewKeybind(keybind.WithKeys("m"), keybind.WithHelp("m", "load more")),
	}
}

// PullList is a List with pull-to-refresh at the top and load-more at the
// bottom. Dragging with the left mouse button stands in for touch: pulling
// the content down while the list is scrolled to the top reveals the header,
// pulling it up at the bottom reveals the footer (in LoadModePull). In
// LoadModeAuto the footer starts loading as soon as a scroll ends at the
// bottom.
//
// Load callbacks run on the event goroutine and must not block. Start the
// work elsewhere and report back with RefreshCompleted or LoadMoreCompleted
// from inside Application.QueueUpdateDraw.
type PullList struct {
	*Box

	KeyMap PullKeyMap

	list       *List
	header     *Indicator
	footer     *Indicator
	scrollBar  *ScrollBar
	controller *pull.Controller

	overScrollable bool
	showScrollBar  bool
	dragging       bool
	moved          bool
	lastDragY      int

	tickKey  string
	scrolled func(first, visible, total int)
}

// NewPullList returns a PullList around an empty List. Both edges stay
// disarmed until SetRefreshFunc and SetLoadMoreFunc register callbacks.
func NewPullList(options ...pull.Option) *PullList {
	p := &PullList{
		Box:            NewBox(),
		KeyMap:         DefaultPullKeyMap(),
		list:           NewList(),
		header:         NewIndicator(pull.EdgeTop),
		footer:         NewIndicator(pull.EdgeBottom),
		scrollBar:      NewScrollBar(),
		overScrollable: true,
		tickKey:        fmt.Sprintf("pullview.spinner.%d", pullListIDs.Add(1)),
	}
	options = append([]pull.Option{pull.WithHeader(p.header), pull.WithFooter(p.footer)}, options...)
	p.controller = pull.NewController(options...)
	p.syncThreshold()

	bindDirtyParent(p.list, p.Box)
	bindDirtyParent(p.header, p.Box)
	bindDirtyParent(p.footer, p.Box)
	bindDirtyParent(p.scrollBar, p.Box)
	p.list.SetScrolledFunc(p.onScrolled)
	return p
}

// List returns the wrapped list. Set its builder to provide the rows.
func (p *PullList) List() *List {
	return p.list
}

func (p *PullList) Header() *Indicator {
	return p.header
}

func (p *PullList) Footer() *Indicator {
	return p.footer
}

func (p *PullList) ScrollBar() *ScrollBar {
	return p.scrollBar
}

// SetScrollBarVisible reserves the rightmost column of the list rows for a
// scroll bar. The header and the footer keep the full width.
func (p *PullList) SetScrollBarVisible(visible bool) *PullList {
	if p.showScrollBar != visible {
		p.showScrollBar = visible
		p.relayout()
	}
	return p
}

// Controller exposes the gesture engine, mostly for inspection.
func (p *PullList) Controller() *pull.Controller {
	return p.controller
}

// SetLogger sets the logger that receives state transitions of both edges.
func (p *PullList) SetLogger(logger *slog.Logger) *PullList {
	p.controller.Machine(pull.EdgeTop).SetLogger(logger)
	p.controller.Machine(pull.EdgeBottom).SetLogger(logger)
	return p
}

// SetRefreshFunc registers the refresh callback and the callback for
// rejected refreshes. A nil onRefresh disables pull-to-refresh.
func (p *PullList) SetRefreshFunc(onRefresh func(), onError func(code pull.ErrorCode)) *PullList {
	p.controller.SetRefreshListener(onRefresh, onError)
	p.MarkDirty()
	return p
}

// SetLoadMoreFunc registers the load-more callback and the callback for
// rejected loads. A nil onLoadMore disables loading more.
func (p *PullList) SetLoadMoreFunc(onLoadMore func(), onError func(code pull.ErrorCode)) *PullList {
	p.controller.SetLoadMoreListener(onLoadMore, onError)
	p.MarkDirty()
	return p
}

// SetScrollFunc sets a callback receiving the first visible item, the
// number of visible items and the item count whenever the view moves.
func (p *PullList) SetScrollFunc(handler func(first, visible, total int)) *PullList {
	p.scrolled = handler
	return p
}

func (p *PullList) onScrolled(first, visible int) {
	total := p.list.ItemCount()
	p.scrollBar.SetPosition(first, visible, total)
	if p.scrolled != nil {
		p.scrolled(first, visible, total)
	}
}

// SetLoadMode switches the footer between loading on scroll and loading on
// a pull gesture.
func (p *PullList) SetLoadMode(mode pull.LoadMode) *PullList {
	p.controller.Configure(mode, p.controller.Threshold())
	p.MarkDirty()
	return p
}

func (p *PullList) LoadMode() pull.LoadMode {
	return p.controller.LoadMode()
}

// SetThreshold sets how many rows an indicator must be pulled out before a
// release triggers it. It panics on a negative value.
func (p *PullList) SetThreshold(rows int) *PullList {
	p.controller.Configure(p.controller.LoadMode(), rows)
	p.syncThreshold()
	p.MarkDirty()
	return p
}

func (p *PullList) syncThreshold() {
	p.header.SetThreshold(p.controller.Threshold())
	p.footer.SetThreshold(p.controller.Threshold())
}

// SetOverScrollable enables or disables the drag gestures. Keyboard and
// programmatic triggers keep working while gestures are off.
func (p *PullList) SetOverScrollable(enabled bool) *PullList {
	p.overScrollable = enabled
	return p
}

// Refresh starts a refresh as if the header had been pulled and released.
// It returns the busy error when the footer is loading.
func (p *PullList) Refresh() error {
	err := p.controller.Refresh()
	p.relayout()
	return err
}

// LoadMore starts loading more as if the footer had been triggered.
func (p *PullList) LoadMore() error {
	err := p.controller.LoadMore()
	p.relayout()
	return err
}

// RefreshCompleted collapses the header and stamps the last update label.
func (p *PullList) RefreshCompleted() {
	p.controller.RefreshCompleted()
	p.relayout()
}

// LoadMoreCompleted collapses the footer. With canLoadMore false the footer
// stays disarmed and shows the no-more-data label until a later completion
// re-arms it.
func (p *PullList) LoadMoreCompleted(canLoadMore bool) {
	p.controller.LoadMoreCompleted(canLoadMore)
	p.relayout()
}

// Animate returns the command that drives the loading spinners, or nil when
// no edge is loading. Handlers already return it; call it after starting a
// load outside of one and pass it to Application.Execute.
func (p *PullList) Animate() Command {
	if !p.controller.Refreshing() && !p.controller.LoadingMore() {
		return nil
	}
	return TickCommand{
		Key:      p.tickKey,
		Interval: SpinnerInterval,
		Func: func() bool {
			header := p.header.Tick()
			footer := p.footer.Tick()
			return header || footer
		},
	}
}

// relayout distributes the rect between header, list and footer according to
// how far the indicators are revealed.
func (p *PullList) relayout() {
	x, y, width, height := p.GetInnerRect()
	headerRows := min(p.header.Rows(), height)
	footerRows := min(p.footer.Rows(), height-headerRows)
	listRows := height - headerRows - footerRows
	listWidth := width
	if p.showScrollBar && width > 1 {
		listWidth--
	}

	p.header.SetRect(x, y, width, headerRows)
	p.list.SetRect(x, y+headerRows, listWidth, listRows)
	p.scrollBar.SetRect(x+listWidth, y+headerRows, width-listWidth, listRows)
	p.footer.SetRect(x, y+headerRows+listRows, width, footerRows)
	p.MarkDirty()
}

// settle reports the end of a scroll to the engine. It lays the list out
// first so that AtTop and AtBottom describe where the scroll ended.
func (p *PullList) settle() {
	p.relayout()
	p.list.UpdateView()
	before := p.controller.State(pull.EdgeBottom)
	p.controller.OnScrollSettled(p.list.AtTop(), p.list.AtBottom())
	if p.controller.State(pull.EdgeBottom) != before {
		p.relayout()
	}
}

func (p *PullList) touchDown(y int) {
	p.relayout()
	p.list.UpdateView()
	p.dragging = true
	p.moved = false
	p.lastDragY = y
	if p.overScrollable {
		p.controller.OnTouchDown(y, p.list.AtTop(), p.list.AtBottom())
	}
}

// touchMove feeds a drag to the engine. Drags the engine does not consume
// scroll the content instead, which also lets a gesture that started mid
// list turn into a pull once the list reaches an edge.
func (p *PullList) touchMove(y int) {
	consumed := false
	if p.overScrollable {
		consumed = p.controller.OnTouchMove(y, p.list.AtTop(), p.list.AtBottom())
	}
	if !consumed && !p.controller.Dragging() {
		p.list.Scroll(p.lastDragY - y)
	}
	p.moved = p.moved || y != p.lastDragY
	p.lastDragY = y
	p.relayout()
	p.list.UpdateView()
}

func (p *PullList) touchUp() {
	p.dragging = false
	if p.overScrollable {
		p.controller.OnTouchUp()
	}
	// A click without movement scrolled nothing, so there is nothing to settle.
	if !p.moved {
		p.relayout()
		return
	}
	p.settle()
}

func (p *PullList) InputHandler(event *tcell.EventKey) Command {
	switch {
	case keybind.Matches(event, p.KeyMap.Refresh):
		_ = p.Refresh()
		return AppendCommand(RedrawCommand{}, p.Animate())
	case keybind.Matches(event, p.KeyMap.LoadMore):
		_ = p.LoadMore()
		return AppendCommand(RedrawCommand{}, p.Animate())
	}

	cmd := p.list.InputHandler(event)
	if cmd == nil {
		return nil
	}
	p.settle()
	return AppendCommand(cmd, p.Animate())
}

// MouseHandler turns left button drags into pull gestures. The list keeps
// clicks and wheel scrolling; a wheel scroll counts as a settled scroll.
func (p *PullList) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()

	if p.dragging {
		switch action {
		case MouseMove:
			p.touchMove(y)
			return p, RedrawCommand{}
		case MouseLeftUp:
			p.touchUp()
			return nil, AppendCommand(RedrawCommand{}, p.Animate())
		}
		return p, nil
	}

	if !p.InRect(x, y) {
		return nil, nil
	}

	switch action {
	case MouseLeftDown:
		p.touchDown(y)
		return p, SetFocusCommand{Target: p}
	case MouseScrollUp, MouseScrollDown:
		_, cmd := p.list.MouseHandler(action, event)
		p.settle()
		return nil, AppendCommand(cmd, p.Animate())
	}
	return p.list.MouseHandler(action, event)
}

func (p *PullList) Focus(delegate func(Primitive)) {
	p.Box.Focus(delegate)
	p.list.Focus(delegate)
}

func (p *PullList) Blur() {
	p.list.Blur()
	p.Box.Blur()
}

func (p *PullList) HasFocus() bool {
	return p.Box.HasFocus() || p.list.HasFocus()
}

func (p *PullList) IsDirty() bool {
	return p.Box.IsDirty() || p.list.IsDirty() || p.header.IsDirty() || p.footer.IsDirty() || p.scrollBar.IsDirty()
}

func (p *PullList) MarkClean() {
	p.Box.MarkClean()
	p.list.MarkClean()
	p.header.MarkClean()
	p.footer.MarkClean()
	p.scrollBar.MarkClean()
}

func (p *PullList) Draw(screen tcell.Screen) {
	p.DrawForSubclass(screen, p)
	p.relayout()
	p.header.Draw(screen)
	p.list.Draw(screen)
	p.footer.Draw(screen)
	if p.showScrollBar {
		// Loads change the item count without moving the view.
		first, visible, _ := p.scrollBar.Position()
		p.scrollBar.SetPosition(first, visible, p.list.ItemCount())
		p.scrollBar.Draw(screen)
	}
}

// ShortHelp and FullHelp make the PullList usable as a help.KeyMap.
func (p *PullList) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{p.KeyMap.Refresh, p.KeyMap.LoadMore, p.list.KeyMap.Down, p.list.KeyMap.Up}
}

func (p *PullList) FullHelp() [][]keybind.Keybind {
	keys := p.list.KeyMap
	return [][]keybind.Keybind{
		{p.KeyMap.Refresh, p.KeyMap.LoadMore},
		{keys.Up, keys.Down, keys.PageUp, keys.PageDown, keys.Home, keys.End},
	}
}

var _ Primitive = &PullList{}
