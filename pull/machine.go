package pull

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultThreshold   = 2
	defaultLabelLayout = "2006-01-02 15:04"
	defaultNoMoreData  = "No more data"
)

// Machine is the pull state machine of one edge. A container owns one per
// edge it supports; the two machines of a container share a *Busy.
//
// Machine is not safe for concurrent use. Completion calls arriving from other
// goroutines must be marshaled onto the goroutine that delivers pointer events.
type Machine struct {
	edge  Edge
	state State
	busy  *Busy

	mode      LoadMode
	threshold int
	offset    int

	// registered is true while a load callback is set; enabled additionally
	// reflects the caller's last "can load" answer.
	registered bool
	enabled    bool

	cameFromRelease bool

	onLoad  func()
	onError func(code ErrorCode)

	presenter Presenter
	logger    *slog.Logger
	now       func() time.Time

	label           string
	labelLayout     string
	noMoreDataLabel string
	lastUpdated     time.Time
}

// NewMachine returns an idle machine for the given edge. If busy is nil the
// machine gets a private flag.
func NewMachine(edge Edge, busy *Busy) *Machine {
	if busy == nil {
		busy = &Busy{}
	}
	m := &Machine{
		edge:            edge,
		busy:            busy,
		threshold:       defaultThreshold,
		offset:          -defaultThreshold,
		presenter:       NopPresenter{},
		logger:          slog.New(slog.DiscardHandler),
		now:             time.Now,
		labelLayout:     defaultLabelLayout,
		noMoreDataLabel: defaultNoMoreData,
	}
	return m
}

// Edge returns the edge this machine is attached to.
func (m *Machine) Edge() Edge { return m.edge }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Offset returns the offset last sent to the presenter.
func (m *Machine) Offset() int { return m.offset }

// Threshold returns the threshold distance.
func (m *Machine) Threshold() int { return m.threshold }

// LoadMode returns the load mode.
func (m *Machine) LoadMode() LoadMode { return m.mode }

// Enabled reports whether gestures on this edge are armed.
func (m *Machine) Enabled() bool { return m.enabled }

// CameFromRelease reports whether the previous state was ReleaseToLoad and
// the gesture has not yet returned to PullToLoad or ended.
func (m *Machine) CameFromRelease() bool { return m.cameFromRelease }

// LastUpdated returns the time of the last completion, or the zero time.
func (m *Machine) LastUpdated() time.Time { return m.lastUpdated }

// SetPresenter attaches p and pushes the current state to it. A nil p
// detaches the presenter.
func (m *Machine) SetPresenter(p Presenter) {
	if p == nil {
		p = NopPresenter{}
	}
	m.presenter = p
	m.present()
	p.SetLabel(m.label)
}

// SetLogger sets the logger used for transition tracing.
func (m *Machine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m.logger = logger
}

// SetClock replaces the clock used for the last update label.
func (m *Machine) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// SetLabelLayout sets the time layout of the last update label.
func (m *Machine) SetLabelLayout(layout string) {
	m.labelLayout = layout
}

// SetNoMoreDataLabel sets the label shown when the caller reported that
// nothing more can be loaded. An empty label disables the hint.
func (m *Machine) SetNoMoreDataLabel(label string) {
	m.noMoreDataLabel = label
}

// SetLoadMode sets how the bottom edge starts loading. It has no effect on
// the top edge.
func (m *Machine) SetLoadMode(mode LoadMode) {
	m.mode = mode
}

// SetThreshold sets the threshold distance. A negative distance is a
// programming error and panics.
func (m *Machine) SetThreshold(threshold int) {
	if threshold < 0 {
		panic(fmt.Sprintf("pull: negative threshold %d", threshold))
	}
	m.threshold = threshold
	switch m.state {
	case StateIdle:
		m.setOffset(-threshold)
	case StateLoading:
	default:
		m.setOffset(m.offset)
	}
}

// SetListener registers the load callback and the rejection callback. A nil
// onLoad disarms the edge.
func (m *Machine) SetListener(onLoad func(), onError func(code ErrorCode)) {
	m.onLoad = onLoad
	m.onError = onError
	m.registered = onLoad != nil
	m.enabled = m.registered
}

// Drag feeds the scaled drag distance of the current gesture, measured away
// from the content (positive pulls the indicator into view). It reports
// whether the machine consumed the event. The pull is tracked even while the
// other edge is loading; the release then reports the busy code.
func (m *Machine) Drag(delta int) bool {
	if !m.enabled || m.state == StateLoading {
		return false
	}
	if m.edge == EdgeBottom && m.mode == LoadModeAuto {
		return false
	}

	switch m.state {
	case StateIdle:
		if delta <= 0 {
			return false
		}
		m.transition(StatePullToLoad)
		m.setOffset(delta - m.threshold)
	case StatePullToLoad:
		switch {
		case delta >= m.threshold:
			m.cameFromRelease = true
			m.transition(StateReleaseToLoad)
			m.setOffset(delta - m.threshold)
		case delta <= 0:
			m.transition(StateIdle)
		default:
			m.setOffset(delta - m.threshold)
		}
	case StateReleaseToLoad:
		if delta < m.threshold {
			m.transition(StatePullToLoad)
		}
		m.setOffset(delta - m.threshold)
	}
	return true
}

// Release ends the gesture. A pull that did not reach the threshold is
// cancelled; a pull past it starts loading when the edge is armed. When the
// other edge is loading, the busy code goes to the error callback and the
// indicator collapses back to Idle.
func (m *Machine) Release() {
	defer func() { m.cameFromRelease = false }()

	switch m.state {
	case StatePullToLoad:
		m.transition(StateIdle)
	case StateReleaseToLoad:
		if !m.enabled {
			m.transition(StateIdle)
			return
		}
		if err := m.startLoading(); err != nil {
			m.transition(StateIdle)
		}
	}
}

// Settle is called when scrolling comes to rest. In auto mode an idle bottom
// edge resting exactly at its boundary starts loading. Settling there while
// either edge is loading counts as a rejected trigger.
func (m *Machine) Settle(atBoundary bool) {
	if m.edge != EdgeBottom || m.mode != LoadModeAuto || !atBoundary {
		return
	}
	if m.state == StateLoading {
		_ = m.startLoading()
		return
	}
	if m.state != StateIdle {
		return
	}
	if !m.enabled {
		if m.registered && m.noMoreDataLabel != "" {
			m.setLabel(m.noMoreDataLabel)
		}
		return
	}
	_ = m.startLoading()
}

// Trigger starts loading without a gesture. It returns the busy code when
// either edge is already loading. Without a registered listener it does
// nothing.
func (m *Machine) Trigger() error {
	if !m.registered {
		return nil
	}
	return m.startLoading()
}

// Complete ends loading. canLoad becomes the new armed state of the edge;
// calling Complete while idle only updates that bookkeeping.
func (m *Machine) Complete(canLoad bool) {
	if m.state == StateLoading {
		m.busy.release(m.edge)
		m.transition(StateIdle)
	}
	if !m.registered {
		return
	}
	m.enabled = canLoad

	switch m.edge {
	case EdgeTop:
		m.lastUpdated = m.now()
		if m.labelLayout != "" {
			m.setLabel("Last updated " + m.lastUpdated.Format(m.labelLayout))
		}
	case EdgeBottom:
		if canLoad {
			m.setLabel("")
		} else {
			m.setLabel(m.noMoreDataLabel)
		}
	}
}

func (m *Machine) startLoading() error {
	if code := m.busy.acquire(m.edge); code != 0 {
		m.logger.Warn("pull trigger rejected", "edge", m.edge.String(), "state", m.state.String(), "error", code.Error())
		if m.onError != nil {
			m.onError(code)
		}
		return code
	}
	m.transition(StateLoading)
	if m.onLoad != nil {
		m.onLoad()
	}
	return nil
}

func (m *Machine) transition(next State) {
	prev := m.state
	if prev == next {
		return
	}
	m.state = next
	m.logger.Debug("pull state transition", "edge", m.edge.String(), "from", prev.String(), "to", next.String())
	m.present()
	if next == StatePullToLoad {
		m.cameFromRelease = false
	}
}

// present pushes the current state to the presenter.
func (m *Machine) present() {
	m.presenter.SetState(m.edge, m.state)
	switch m.state {
	case StateIdle:
		m.presenter.SetArrow(m.restingArrow())
		m.setOffset(-m.threshold)
	case StatePullToLoad:
		m.presenter.SetArrow(m.restingArrow())
	case StateReleaseToLoad:
		m.presenter.SetArrow(m.restingArrow().flip())
	case StateLoading:
		m.presenter.SetArrow(ArrowHidden)
		m.setOffset(0)
	}
}

// restingArrow points the way the user has to drag.
func (m *Machine) restingArrow() Arrow {
	if m.edge == EdgeTop {
		return ArrowDown
	}
	return ArrowUp
}

// setOffset clamps the offset to [-threshold, 0] and forwards it.
func (m *Machine) setOffset(offset int) {
	offset = min(max(offset, -m.threshold), 0)
	m.offset = offset
	m.presenter.SetOffset(offset)
}

func (m *Machine) setLabel(label string) {
	if m.label == label {
		return
	}
	m.label = label
	m.presenter.SetLabel(label)
}
