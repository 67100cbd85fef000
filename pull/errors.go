package pull

import "fmt"

// ErrorCode reports why a trigger was rejected. It is delivered to the
// listener's error callback and returned from programmatic triggers.
type ErrorCode int

const (
	// ErrorRefreshing means the top edge is already loading.
	ErrorRefreshing ErrorCode = iota + 1
	// ErrorLoadingMore means the bottom edge is already loading.
	ErrorLoadingMore
)

func (c ErrorCode) Error() string {
	switch c {
	case ErrorRefreshing:
		return "pull: refresh in progress"
	case ErrorLoadingMore:
		return "pull: load more in progress"
	default:
		return fmt.Sprintf("pull: error code %d", int(c))
	}
}

// Busy is the only state shared between the two edges of a container. It
// records which edge, if any, is currently loading.
type Busy struct {
	holder Edge
	held   bool
}

// Holder returns the loading edge.
func (b *Busy) Holder() (Edge, bool) {
	return b.holder, b.held
}

// acquire marks edge as loading. It returns the holder's code, or zero on
// success.
func (b *Busy) acquire(edge Edge) ErrorCode {
	if b.held {
		return b.holder.busyCode()
	}
	b.holder, b.held = edge, true
	return 0
}

func (b *Busy) release(edge Edge) {
	if b.held && b.holder == edge {
		b.held = false
	}
}
