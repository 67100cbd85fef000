package pull

import (
	"fmt"
	"strings"
)

// OffsetRatio is the divisor applied to raw pointer travel before it is
// compared with the threshold distance. It makes the pull feel heavier than
// the finger movement.
const OffsetRatio = 3

// State is the lifecycle state of one edge.
type State int

const (
	StateIdle State = iota
	StatePullToLoad
	StateReleaseToLoad
	StateLoading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePullToLoad:
		return "pull-to-load"
	case StateReleaseToLoad:
		return "release-to-load"
	case StateLoading:
		return "loading"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// dragging reports whether the state is only reachable while a gesture is in
// progress.
func (s State) dragging() bool {
	return s == StatePullToLoad || s == StateReleaseToLoad
}

// LoadMode selects how the bottom edge starts loading.
type LoadMode int

const (
	// LoadModeAuto starts loading as soon as scrolling settles at the bottom.
	LoadModeAuto LoadMode = iota
	// LoadModePull requires an explicit pull-up gesture.
	LoadModePull
)

func (m LoadMode) String() string {
	switch m {
	case LoadModeAuto:
		return "auto"
	case LoadModePull:
		return "pull"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseLoadMode parses "auto" or "pull" (case-insensitive).
func ParseLoadMode(s string) (LoadMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "auto-load", "":
		return LoadModeAuto, nil
	case "pull", "pull-to-load":
		return LoadModePull, nil
	}
	return LoadModeAuto, fmt.Errorf("unknown load mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LoadMode) UnmarshalText(text []byte) error {
	mode, err := ParseLoadMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m LoadMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Edge identifies the boundary a machine is attached to.
type Edge int

const (
	// EdgeTop refreshes.
	EdgeTop Edge = iota
	// EdgeBottom loads more.
	EdgeBottom
)

func (e Edge) String() string {
	if e == EdgeTop {
		return "top"
	}
	return "bottom"
}

// busyCode is the error reported to a trigger that finds this edge loading.
func (e Edge) busyCode() ErrorCode {
	if e == EdgeTop {
		return ErrorRefreshing
	}
	return ErrorLoadingMore
}

// Arrow is the direction hint a presenter shows while dragging.
type Arrow int

const (
	ArrowHidden Arrow = iota
	ArrowDown
	ArrowUp
)

func (a Arrow) String() string {
	switch a {
	case ArrowDown:
		return "down"
	case ArrowUp:
		return "up"
	default:
		return "hidden"
	}
}

// flip returns the opposite direction. Hidden stays hidden.
func (a Arrow) flip() Arrow {
	switch a {
	case ArrowDown:
		return ArrowUp
	case ArrowUp:
		return ArrowDown
	default:
		return ArrowHidden
	}
}
