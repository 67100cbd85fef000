package pullview

import "time"

// Command is a side effect returned by an input or mouse handler. The
// Application executes it after the handler returns. A nil Command does
// nothing.
type Command any

// BatchCommand executes its commands in order.
type BatchCommand []Command

// AppendCommand combines two commands into one, flattening batches. Either
// argument may be nil.
func AppendCommand(current, next Command) Command {
	switch {
	case next == nil:
		return current
	case current == nil:
		return next
	}

	var batch BatchCommand
	for _, c := range []Command{current, next} {
		if inner, ok := c.(BatchCommand); ok {
			batch = append(batch, inner...)
		} else {
			batch = append(batch, c)
		}
	}
	return batch
}

// SetFocusCommand moves keyboard focus to Target.
type SetFocusCommand struct {
	Target Primitive
}

// RedrawCommand redraws the screen once the event is handled.
type RedrawCommand struct{}

// QuitCommand stops the application.
type QuitCommand struct{}

// TickCommand runs Func on the event goroutine every Interval until it
// returns false, redrawing after each run. Only one tick per Key runs at a
// time; PullList uses it to animate loading spinners.
type TickCommand struct {
	Key      string
	Interval time.Duration
	Func     func() bool
}
