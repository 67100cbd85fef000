package pullview

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v3"
)

const (
	// Capacity of the queued updates channel.
	updatesQueueSize = 100
	// Resize events closer together than this are folded into one redraw.
	redrawPause = 50 * time.Millisecond
)

// DoubleClickInterval is the longest gap between two clicks that still counts
// as a double click.
var DoubleClickInterval = 500 * time.Millisecond

// MouseAction is a logical mouse action derived from raw tcell mouse events.
type MouseAction int16

const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseLeftDoubleClick
	MouseMiddleDown
	MouseMiddleUp
	MouseMiddleClick
	MouseMiddleDoubleClick
	MouseRightDown
	MouseRightUp
	MouseRightClick
	MouseRightDoubleClick
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

type mouseButton struct {
	mask                    tcell.ButtonMask
	down, up, click, dclick MouseAction
}

var mouseButtons = []mouseButton{
	{tcell.ButtonPrimary, MouseLeftDown, MouseLeftUp, MouseLeftClick, MouseLeftDoubleClick},
	{tcell.ButtonMiddle, MouseMiddleDown, MouseMiddleUp, MouseMiddleClick, MouseMiddleDoubleClick},
	{tcell.ButtonSecondary, MouseRightDown, MouseRightUp, MouseRightClick, MouseRightDoubleClick},
}

var mouseWheels = []struct {
	mask   tcell.ButtonMask
	action MouseAction
}{
	{tcell.WheelUp, MouseScrollUp},
	{tcell.WheelDown, MouseScrollDown},
	{tcell.WheelLeft, MouseScrollLeft},
	{tcell.WheelRight, MouseScrollRight},
}

// mouseState is what the event loop remembers between mouse events.
type mouseState struct {
	// capture receives all mouse actions while set. A MouseHandler sets it by
	// returning a primitive.
	capture      Primitive
	x, y         int
	downX, downY int
	buttons      tcell.ButtonMask
	lastClick    time.Time
}

type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application owns the screen and runs the event loop. Mouse reporting is
// enabled so that left button drags reach primitives as pull gestures.
//
//	app := pullview.NewApplication().SetRoot(list)
//	if err := app.Run(); err != nil {
//		return err
//	}
type Application struct {
	mu sync.RWMutex

	screen tcell.Screen
	root   Primitive
	focus  Primitive

	updates chan queuedUpdate

	// Touched on the event goroutine only.
	mouse       mouseState
	pasting     bool
	pasteBuffer strings.Builder
	lastRedraw  time.Time
	redrawTimer *time.Timer

	// forceRedraw clears the screen before the next frame.
	forceRedraw bool

	// Keys of running TickCommands.
	ticks map[string]struct{}

	// done is closed by Stop and releases goroutines blocked on the loop.
	done     chan struct{}
	stopOnce sync.Once

	logger *slog.Logger
}

func NewApplication() *Application {
	return &Application{
		updates: make(chan queuedUpdate, updatesQueueSize),
		ticks:   make(map[string]struct{}),
		done:    make(chan struct{}),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger used for event loop diagnostics.
func (a *Application) SetLogger(logger *slog.Logger) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()
	if logger != nil {
		a.logger = logger
	}
	return a
}

// SetScreen makes Run use screen instead of opening the terminal. It has no
// effect once a screen is set.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.forceRedraw = true
	}
	return a
}

// Run starts the event loop and returns once [Application.Stop] was called
// or the terminal reported an error.
func (a *Application) Run() error {
	screen, err := a.initScreen()
	if err != nil {
		return err
	}

	// A panic would leave the terminal in raw mode.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	a.draw()
	events := screen.EventQ()
	for {
		select {
		case event := <-events:
			if event == nil {
				return nil
			}
			if err := a.handleEvent(event); err != nil {
				a.logger.Error("terminal error", "error", err)
				a.Stop()
				return err
			}
		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
		case <-a.done:
			return nil
		}
	}
}

func (a *Application) initScreen() (tcell.Screen, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		if err := screen.Init(); err != nil {
			return nil, err
		}
		a.screen = screen
	}
	a.screen.EnableMouse()
	a.screen.EnablePaste()
	return a.screen, nil
}

func (a *Application) handleEvent(event tcell.Event) error {
	switch event := event.(type) {
	case *tcell.EventKey:
		if a.pasting {
			a.collectPaste(event)
			return nil
		}
		if root := a.focusedRoot(); root != nil {
			a.Execute(root.InputHandler(event))
		}
	case *tcell.EventPaste:
		switch {
		case event.Start():
			a.pasting = true
			a.pasteBuffer.Reset()
		case event.End():
			a.pasting = false
			if root := a.focusedRoot(); root != nil && a.pasteBuffer.Len() > 0 {
				a.Execute(root.PasteHandler(a.pasteBuffer.String()))
			}
		}
	case *tcell.EventResize:
		a.resize()
	case *tcell.EventMouse:
		if a.dispatchMouse(event) {
			a.draw()
		}
	case *tcell.EventError:
		return event
	}
	return nil
}

func (a *Application) collectPaste(event *tcell.EventKey) {
	switch event.Key() {
	case tcell.KeyRune:
		a.pasteBuffer.WriteString(event.Str())
	case tcell.KeyEnter:
		a.pasteBuffer.WriteByte('\n')
	case tcell.KeyTab:
		a.pasteBuffer.WriteByte('\t')
	}
}

// focusedRoot returns the root if it or one of its children has focus.
func (a *Application) focusedRoot() Primitive {
	a.mu.RLock()
	root := a.root
	a.mu.RUnlock()
	if root == nil || !root.HasFocus() {
		return nil
	}
	return root
}

// resize redraws right away unless the last redraw was less than
// redrawPause ago, in which case one delayed redraw is scheduled.
func (a *Application) resize() {
	a.mu.Lock()
	a.forceRedraw = true
	a.mu.Unlock()

	if time.Since(a.lastRedraw) < redrawPause {
		if a.redrawTimer != nil {
			a.redrawTimer.Stop()
		}
		a.redrawTimer = time.AfterFunc(redrawPause, func() {
			a.QueueUpdate(func() { a.draw() })
		})
	}
	a.lastRedraw = time.Now()
	a.draw()
}

// dispatchMouse derives the logical actions of event and hands them to the
// capturing primitive, or to the root. It reports whether a redraw is due.
func (a *Application) dispatchMouse(event *tcell.EventMouse) bool {
	var (
		actions []MouseAction
		x, y    = event.Position()
		buttons = event.Buttons()
		moved   = x != a.mouse.downX || y != a.mouse.downY
	)

	if x != a.mouse.x || y != a.mouse.y {
		actions = append(actions, MouseMove)
		a.mouse.x, a.mouse.y = x, y
	}

	changed := buttons ^ a.mouse.buttons
	for _, b := range mouseButtons {
		if changed&b.mask == 0 {
			continue
		}
		if buttons&b.mask != 0 {
			actions = append(actions, b.down)
			a.mouse.downX, a.mouse.downY = x, y
			continue
		}
		actions = append(actions, b.up)
		if moved {
			continue
		}
		if time.Since(a.mouse.lastClick) > DoubleClickInterval {
			actions = append(actions, b.click)
			a.mouse.lastClick = time.Now()
		} else {
			actions = append(actions, b.dclick)
			a.mouse.lastClick = time.Time{}
		}
	}
	for _, w := range mouseWheels {
		if buttons&w.mask != 0 {
			actions = append(actions, w.action)
		}
	}
	a.mouse.buttons = buttons

	a.mu.RLock()
	root := a.root
	a.mu.RUnlock()

	// All actions of one event go to the primitive that took the first one.
	var target Primitive
	redraw := false
	for _, action := range actions {
		p := a.mouse.capture
		switch {
		case p != nil:
			target = p
		case target != nil:
			p = target
		default:
			p = root
		}
		if p == nil {
			continue
		}
		capture, cmd := p.MouseHandler(action, event)
		a.mouse.capture = capture
		if a.executeCommand(cmd) {
			redraw = true
		}
	}
	return redraw
}

// Stop makes Run return and releases the terminal. It is safe to call from
// any goroutine and more than once.
func (a *Application) Stop() {
	a.stopOnce.Do(func() { close(a.done) })

	a.mu.Lock()
	screen := a.screen
	a.screen = nil
	a.mu.Unlock()
	if screen != nil {
		screen.Fini()
	}
}

// Draw queues a redraw. Never call it from the event goroutine (inside a
// handler or a queued update); it would deadlock.
func (a *Application) Draw() *Application {
	a.QueueUpdate(func() {
		a.draw()
	})
	return a
}

func (a *Application) draw() {
	a.mu.Lock()
	screen, root, force := a.screen, a.root, a.forceRedraw
	a.forceRedraw = false
	a.mu.Unlock()
	if screen == nil || root == nil {
		return
	}

	width, height := screen.Size()
	root.SetRect(0, 0, width, height)
	// tcell only emits changed cells on Show, so the screen is cleared only
	// when the terminal state may be stale.
	if force {
		screen.Clear()
	}
	root.Draw(screen)
	root.MarkClean()
	screen.Show()
}

// SetRoot sets the primitive filling the screen and focuses it.
func (a *Application) SetRoot(root Primitive) *Application {
	a.mu.Lock()
	a.root = root
	a.forceRedraw = a.screen != nil
	a.mu.Unlock()

	a.SetFocus(root)
	return a
}

// SetFocus blurs the focused primitive and focuses p. p may pass the focus
// on to a child through the delegate it receives.
func (a *Application) SetFocus(p Primitive) *Application {
	a.mu.Lock()
	previous := a.focus
	a.focus = p
	if a.screen != nil {
		a.screen.HideCursor()
	}
	a.mu.Unlock()

	if previous != nil {
		previous.Blur()
	}
	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}
	return a
}

// GetFocus returns the focused primitive, or nil.
func (a *Application) GetFocus() Primitive {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.focus
}

// QueueUpdate runs f on the event goroutine, which is the only place
// primitives may be touched once Run has started. Load callbacks that finish
// on another goroutine must report completion through it.
//
// It returns after f has executed, or right away if the application stopped.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{}, 1)
	select {
	case a.updates <- queuedUpdate{f: f, done: ch}:
	case <-a.done:
		return a
	}
	select {
	case <-ch:
	case <-a.done:
	}
	return a
}

// QueueUpdateDraw is QueueUpdate followed by a redraw.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	a.QueueUpdate(func() {
		f()
		a.draw()
	})
	return a
}

// Execute runs cmd the way a handler's return value is run. Call it only on
// the event goroutine, for example inside QueueUpdateDraw.
func (a *Application) Execute(cmd Command) {
	if a.executeCommand(cmd) {
		a.draw()
	}
}

// executeCommand reports whether cmd asks for a redraw.
func (a *Application) executeCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case BatchCommand:
		redraw := false
		for _, item := range c {
			if a.executeCommand(item) {
				redraw = true
			}
		}
		return redraw
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
	case SetFocusCommand:
		if c.Target == nil || c.Target == a.GetFocus() {
			return false
		}
		a.SetFocus(c.Target)
		return true
	case TickCommand:
		a.startTick(c)
	}
	return false
}

// startTick runs c.Func on the event goroutine once per interval until it
// returns false or the application stops. A tick with a key that is already
// running is dropped.
func (a *Application) startTick(c TickCommand) {
	if c.Func == nil || c.Interval <= 0 {
		return
	}
	a.mu.Lock()
	if _, running := a.ticks[c.Key]; running {
		a.mu.Unlock()
		return
	}
	a.ticks[c.Key] = struct{}{}
	logger := a.logger
	a.mu.Unlock()
	logger.Debug("tick started", "key", c.Key, "interval", c.Interval)

	go func() {
		ticker := time.NewTicker(c.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
			case <-a.done:
				return
			}
			more := true
			a.QueueUpdate(func() {
				more = c.Func()
				if !more {
					a.mu.Lock()
					delete(a.ticks, c.Key)
					a.mu.Unlock()
					logger.Debug("tick stopped", "key", c.Key)
				}
				a.draw()
			})
			if !more {
				return
			}
		}
	}()
}
