package pullview

import (
	"slices"
	"testing"

	"github.com/gdamore/tcell/v3"
)

// mouseRecorder captures the mouse between a left down and the next left up.
type mouseRecorder struct {
	*Box
	actions []MouseAction
	held    bool
}

func (m *mouseRecorder) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	m.actions = append(m.actions, action)
	switch action {
	case MouseLeftDown:
		m.held = true
	case MouseLeftUp:
		m.held = false
	}
	if m.held {
		return m, RedrawCommand{}
	}
	return nil, nil
}

func TestApplication_DispatchMouse(t *testing.T) {
	root := &mouseRecorder{Box: NewBox()}
	app := NewApplication()
	app.root = root

	type step struct {
		x, y    int
		buttons tcell.ButtonMask
		want    []MouseAction
		redraw  bool
	}
	steps := []step{
		{x: 2, y: 3, buttons: tcell.ButtonPrimary, want: []MouseAction{MouseMove, MouseLeftDown}, redraw: true},
		{x: 2, y: 6, buttons: tcell.ButtonPrimary, want: []MouseAction{MouseMove}, redraw: true},
		{x: 2, y: 6, buttons: tcell.ButtonNone, want: []MouseAction{MouseLeftUp}},
		{x: 4, y: 4, buttons: tcell.ButtonPrimary, want: []MouseAction{MouseMove, MouseLeftDown}, redraw: true},
		{x: 4, y: 4, buttons: tcell.ButtonNone, want: []MouseAction{MouseLeftUp, MouseLeftClick}},
		{x: 4, y: 4, buttons: tcell.WheelDown, want: []MouseAction{MouseScrollDown}},
	}

	for i, s := range steps {
		root.actions = nil
		redraw := app.dispatchMouse(tcell.NewEventMouse(s.x, s.y, s.buttons, tcell.ModNone))
		if !slices.Equal(root.actions, s.want) {
			t.Fatalf("step %d: actions = %v, want %v", i, root.actions, s.want)
		}
		if redraw != s.redraw {
			t.Fatalf("step %d: redraw = %v, want %v", i, redraw, s.redraw)
		}
		if (app.mouse.capture != nil) != root.held {
			t.Fatalf("step %d: capture = %v, held = %v", i, app.mouse.capture, root.held)
		}
	}
}

func TestApplication_ExecuteCommand(t *testing.T) {
	type tc struct {
		cmd  Command
		want bool
	}

	tests := map[string]tc{
		"nil":              {cmd: nil, want: false},
		"redraw":           {cmd: RedrawCommand{}, want: true},
		"batch with draw":  {cmd: BatchCommand{nil, RedrawCommand{}}, want: true},
		"batch":            {cmd: BatchCommand{nil, SetFocusCommand{}}, want: false},
		"unknown":          {cmd: "noop", want: false},
		"focus new target": {cmd: SetFocusCommand{Target: NewBox()}, want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			app := NewApplication()
			if got := app.executeCommand(tt.cmd); got != tt.want {
				t.Fatalf("executeCommand(%#v) = %v, want %v", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestApplication_QuitStops(t *testing.T) {
	app := NewApplication()
	app.executeCommand(QuitCommand{})
	select {
	case <-app.done:
	default:
		t.Fatal("quit did not stop the application")
	}

	// Updates queued after stopping return instead of blocking.
	ran := false
	app.QueueUpdate(func() { ran = true })
	if ran {
		t.Fatal("update ran after stop")
	}
	app.Stop()
}

func TestApplication_TickDeduplicates(t *testing.T) {
	app := NewApplication()
	tick := TickCommand{Key: "spinner", Interval: 1 << 40, Func: func() bool { return true }}
	app.executeCommand(tick)
	app.executeCommand(tick)
	if len(app.ticks) != 1 {
		t.Fatalf("ticks = %d", len(app.ticks))
	}
	app.Stop()
}

func TestAppendCommand(t *testing.T) {
	type tc struct {
		current, next Command
		want          Command
	}

	tests := map[string]tc{
		"both nil":     {want: nil},
		"next nil":     {current: RedrawCommand{}, want: RedrawCommand{}},
		"current nil":  {next: QuitCommand{}, want: QuitCommand{}},
		"two commands": {current: RedrawCommand{}, next: QuitCommand{}, want: BatchCommand{RedrawCommand{}, QuitCommand{}}},
		"flattens": {
			current: BatchCommand{RedrawCommand{}},
			next:    BatchCommand{QuitCommand{}, RedrawCommand{}},
			want:    BatchCommand{RedrawCommand{}, QuitCommand{}, RedrawCommand{}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := AppendCommand(tt.current, tt.next)
			if batch, ok := tt.want.(BatchCommand); ok {
				gotBatch, ok := got.(BatchCommand)
				if !ok || !slices.Equal(gotBatch, batch) {
					t.Fatalf("AppendCommand() = %#v, want %#v", got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Fatalf("AppendCommand() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
