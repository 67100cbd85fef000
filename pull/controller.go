package pull

import (
	"log/slog"
	"time"
)

// Controller drives the refresh (top) and load-more (bottom) machines of one
// scrollable container from pointer and scroll events.
//
// All methods must be called from the goroutine that delivers input events.
// Completions produced elsewhere have to be marshaled onto it first, e.g. via
// Application.QueueUpdateDraw.
type Controller struct {
	tracker Tracker
	busy    Busy

	top    *Machine
	bottom *Machine
}

// Option configures a Controller.
type Option func(*Controller)

// WithLoadMode sets the load mode of the bottom edge.
func WithLoadMode(mode LoadMode) Option {
	return func(c *Controller) {
		c.bottom.SetLoadMode(mode)
	}
}

// WithThreshold sets the threshold distance of both edges.
func WithThreshold(threshold int) Option {
	return func(c *Controller) {
		c.top.SetThreshold(threshold)
		c.bottom.SetThreshold(threshold)
	}
}

// WithHeader attaches the presenter of the refresh edge.
func WithHeader(p HeaderPresenter) Option {
	return func(c *Controller) {
		c.top.SetPresenter(p)
	}
}

// WithFooter attaches the presenter of the load-more edge.
func WithFooter(p FooterPresenter) Option {
	return func(c *Controller) {
		c.bottom.SetPresenter(p)
	}
}

// WithLogger sets the logger of both machines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.top.SetLogger(logger)
		c.bottom.SetLogger(logger)
	}
}

// WithClock replaces time.Now for the last update label.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.top.SetClock(now)
		c.bottom.SetClock(now)
	}
}

// WithLabelLayout sets the time layout of the header's last update label.
// An empty layout disables the label.
func WithLabelLayout(layout string) Option {
	return func(c *Controller) {
		c.top.SetLabelLayout(layout)
	}
}

// WithNoMoreDataLabel sets the footer label shown once the caller reported
// that nothing more can be loaded.
func WithNoMoreDataLabel(label string) Option {
	return func(c *Controller) {
		c.bottom.SetNoMoreDataLabel(label)
	}
}

// NewController returns a controller with both edges idle and disarmed.
func NewController(options ...Option) *Controller {
	c := &Controller{}
	c.top = NewMachine(EdgeTop, &c.busy)
	c.bottom = NewMachine(EdgeBottom, &c.busy)
	for _, option := range options {
		option(c)
	}
	return c
}

// Configure sets the load mode and the threshold distance of both edges.
func (c *Controller) Configure(mode LoadMode, threshold int) {
	c.bottom.SetLoadMode(mode)
	c.top.SetThreshold(threshold)
	c.bottom.SetThreshold(threshold)
}

// Machine returns the machine of the given edge.
func (c *Controller) Machine(edge Edge) *Machine {
	if edge == EdgeTop {
		return c.top
	}
	return c.bottom
}

// State returns the state of the given edge.
func (c *Controller) State(edge Edge) State {
	return c.Machine(edge).State()
}

// LoadMode returns the load mode of the bottom edge.
func (c *Controller) LoadMode() LoadMode {
	return c.bottom.LoadMode()
}

// Threshold returns the threshold distance shared by both edges.
func (c *Controller) Threshold() int {
	return c.top.Threshold()
}

// Offset returns the presenter offset of the given edge.
func (c *Controller) Offset(edge Edge) int {
	return c.Machine(edge).Offset()
}

// Busy returns the edge that is loading, if any.
func (c *Controller) Busy() (Edge, bool) {
	return c.busy.Holder()
}

// Refreshing reports whether the top edge is loading.
func (c *Controller) Refreshing() bool {
	return c.top.State() == StateLoading
}

// LoadingMore reports whether the bottom edge is loading.
func (c *Controller) LoadingMore() bool {
	return c.bottom.State() == StateLoading
}

// Dragging reports whether either edge is tracking a pull.
func (c *Controller) Dragging() bool {
	return c.top.State().dragging() || c.bottom.State().dragging()
}

// Tracker exposes the gesture tracker.
func (c *Controller) Tracker() *Tracker {
	return &c.tracker
}

// SetRefreshListener registers the refresh callbacks. A nil onRefresh
// disables pull-to-refresh.
func (c *Controller) SetRefreshListener(onRefresh func(), onError func(code ErrorCode)) {
	c.top.SetListener(onRefresh, onError)
}

// SetLoadMoreListener registers the load-more callbacks. A nil onLoadMore
// disables loading more.
func (c *Controller) SetLoadMoreListener(onLoadMore func(), onError func(code ErrorCode)) {
	c.bottom.SetListener(onLoadMore, onError)
}

// OnTouchDown starts a gesture if the content rests at a boundary.
func (c *Controller) OnTouchDown(y int, atTop, atBottom bool) {
	c.tracker.Down(y, atTop, atBottom)
}

// OnTouchMove feeds a pointer move. It reports whether an edge consumed it,
// in which case the container should not scroll its content.
func (c *Controller) OnTouchMove(y int, atTop, atBottom bool) bool {
	delta, ok := c.tracker.Move(y, atTop, atBottom)
	if !ok {
		return false
	}

	switch {
	case c.top.State().dragging():
		return c.top.Drag(delta)
	case c.bottom.State().dragging():
		return c.bottom.Drag(-delta)
	case atTop && delta > 0:
		return c.top.Drag(delta)
	case atBottom && delta < 0:
		return c.bottom.Drag(-delta)
	}
	return false
}

// OnTouchUp ends the gesture.
func (c *Controller) OnTouchUp() {
	c.tracker.Up()
	c.top.Release()
	c.bottom.Release()
}

// OnScrollSettled is called when scrolling comes to rest.
func (c *Controller) OnScrollSettled(atTop, atBottom bool) {
	c.bottom.Settle(atBottom)
}

// Refresh starts refreshing without a gesture.
func (c *Controller) Refresh() error {
	return c.top.Trigger()
}

// LoadMore starts loading more without a gesture.
func (c *Controller) LoadMore() error {
	return c.bottom.Trigger()
}

// RefreshCompleted returns the top edge to idle.
func (c *Controller) RefreshCompleted() {
	c.top.Complete(true)
}

// LoadMoreCompleted returns the bottom edge to idle. canLoadMore reports
// whether more data remains; when false the bottom edge is disarmed until a
// later completion re-arms it.
func (c *Controller) LoadMoreCompleted(canLoadMore bool) {
	c.bottom.Complete(canLoadMore)
}
