package pull

import (
	"testing"
	"time"
)

// recorder is a Presenter that remembers the last instruction of each kind.
type recorder struct {
	edge    Edge
	state   State
	offset  int
	arrow   Arrow
	label   string
	offsets []int
	states  []State
}

func (r *recorder) SetState(edge Edge, state State) {
	r.edge, r.state = edge, state
	r.states = append(r.states, state)
}

func (r *recorder) SetOffset(offset int) {
	r.offset = offset
	r.offsets = append(r.offsets, offset)
}

func (r *recorder) SetArrow(arrow Arrow) { r.arrow = arrow }
func (r *recorder) SetLabel(text string) { r.label = text }

// calls counts listener invocations.
type calls struct {
	loads  int
	errors []ErrorCode
}

func (c *calls) onLoad()                { c.loads++ }
func (c *calls) onError(code ErrorCode) { c.errors = append(c.errors, code) }

func newTopMachine(threshold int) (*Machine, *recorder, *calls) {
	m := NewMachine(EdgeTop, nil)
	r := &recorder{}
	c := &calls{}
	m.SetThreshold(threshold)
	m.SetPresenter(r)
	m.SetListener(c.onLoad, c.onError)
	return m, r, c
}

func TestMachine_DragTransitions(t *testing.T) {
	type step struct {
		delta  int
		state  State
		offset int
	}
	type tc struct {
		steps []step
	}

	tests := map[string]tc{
		"pull then release": {
			steps: []step{
				{delta: 3, state: StatePullToLoad, offset: -7},
				{delta: 9, state: StatePullToLoad, offset: -1},
				{delta: 10, state: StateReleaseToLoad, offset: 0},
				{delta: 25, state: StateReleaseToLoad, offset: 0},
			},
		},
		"pull back to idle": {
			steps: []step{
				{delta: 4, state: StatePullToLoad, offset: -6},
				{delta: 0, state: StateIdle, offset: -10},
			},
		},
		"release back to pull without skipping": {
			steps: []step{
				{delta: 4, state: StatePullToLoad, offset: -6},
				{delta: 12, state: StateReleaseToLoad, offset: 0},
				{delta: -5, state: StatePullToLoad, offset: -10},
				{delta: -5, state: StateIdle, offset: -10},
			},
		},
		"one large move only reaches pull": {
			steps: []step{
				{delta: 50, state: StatePullToLoad, offset: 0},
				{delta: 50, state: StateReleaseToLoad, offset: 0},
			},
		},
		"idle ignores upward drag": {
			steps: []step{
				{delta: -3, state: StateIdle, offset: -10},
				{delta: 0, state: StateIdle, offset: -10},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, r, _ := newTopMachine(10)
			for i, s := range tt.steps {
				m.Drag(s.delta)
				if m.State() != s.state {
					t.Errorf("step %d: state = %v, want %v", i, m.State(), s.state)
				}
				if m.Offset() != s.offset || r.offset != s.offset {
					t.Errorf("step %d: offset = %d (presenter %d), want %d", i, m.Offset(), r.offset, s.offset)
				}
			}
		})
	}
}

func TestMachine_OffsetStaysInRange(t *testing.T) {
	m, r, _ := newTopMachine(8)
	for _, d := range []int{1, 5, 9, 30, 7, 2, -4, 3, 8, 100, -100} {
		m.Drag(d)
	}
	for i, off := range r.offsets {
		if off < -8 || off > 0 {
			t.Fatalf("offset %d = %d, outside [-8, 0]", i, off)
		}
	}
}

func TestMachine_ArrowFollowsState(t *testing.T) {
	m, r, _ := newTopMachine(10)
	m.Drag(2)
	if r.arrow != ArrowDown {
		t.Fatalf("pull arrow = %v, want down", r.arrow)
	}
	m.Drag(10)
	if r.arrow != ArrowUp || !m.CameFromRelease() {
		t.Fatalf("release arrow = %v, cameFromRelease = %v", r.arrow, m.CameFromRelease())
	}
	m.Drag(5)
	if r.arrow != ArrowDown || m.CameFromRelease() {
		t.Fatalf("back to pull arrow = %v, cameFromRelease = %v", r.arrow, m.CameFromRelease())
	}
	m.Drag(10)
	m.Release()
	if r.arrow != ArrowHidden || r.state != StateLoading {
		t.Fatalf("loading arrow = %v state = %v", r.arrow, r.state)
	}
}

func TestMachine_ReleaseFiresOnce(t *testing.T) {
	m, r, c := newTopMachine(10)
	for _, d := range []int{3, 10, 11, 12, 15, 20} {
		m.Drag(d)
	}
	m.Release()
	if m.State() != StateLoading || c.loads != 1 {
		t.Fatalf("state = %v, loads = %d", m.State(), c.loads)
	}
	if r.offset != 0 {
		t.Fatalf("loading offset = %d, want 0", r.offset)
	}

	// Drags while loading are ignored and releases do not fire again.
	if m.Drag(30) {
		t.Fatal("drag consumed while loading")
	}
	m.Release()
	if c.loads != 1 || m.Offset() != 0 {
		t.Fatalf("loads = %d offset = %d after second release", c.loads, m.Offset())
	}
}

func TestMachine_ReleaseBeforeThresholdCancels(t *testing.T) {
	m, _, c := newTopMachine(10)
	m.Drag(5)
	m.Release()
	if m.State() != StateIdle || c.loads != 0 || m.Offset() != -10 {
		t.Fatalf("state = %v loads = %d offset = %d", m.State(), c.loads, m.Offset())
	}
}

func TestMachine_ReleaseWhileDisarmed(t *testing.T) {
	m, _, c := newTopMachine(10)
	m.Drag(5)
	m.Drag(10)
	m.SetListener(nil, nil)
	m.Release()
	if m.State() != StateIdle || c.loads != 0 {
		t.Fatalf("state = %v loads = %d", m.State(), c.loads)
	}
}

func TestMachine_DisarmedIgnoresDrag(t *testing.T) {
	m := NewMachine(EdgeTop, nil)
	if m.Drag(5) {
		t.Fatal("drag consumed without a listener")
	}
	if m.State() != StateIdle {
		t.Fatalf("state = %v", m.State())
	}
}

func TestMachine_CompleteIsIdempotent(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	m, r, c := newTopMachine(4)
	m.SetClock(func() time.Time { return now })

	if err := m.Trigger(); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	m.Complete(true)
	first := *r
	m.Complete(true)

	if m.State() != StateIdle || r.state != first.state || r.offset != first.offset {
		t.Fatalf("second completion changed state: %v/%d vs %v/%d", r.state, r.offset, first.state, first.offset)
	}
	if _, held := m.busy.Holder(); held {
		t.Fatal("busy still held")
	}
	if c.loads != 1 {
		t.Fatalf("loads = %d", c.loads)
	}
	if want := "Last updated 2026-10-19 09:30"; r.label != want {
		t.Fatalf("label = %q, want %q", r.label, want)
	}
}

func TestMachine_CompleteWithoutListener(t *testing.T) {
	m := NewMachine(EdgeBottom, nil)
	m.Complete(true)
	if m.State() != StateIdle || m.Enabled() {
		t.Fatalf("state = %v enabled = %v", m.State(), m.Enabled())
	}
}

func TestMachine_TriggerWhileLoading(t *testing.T) {
	m, _, c := newTopMachine(4)
	if err := m.Trigger(); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	err := m.Trigger()
	if err != ErrorRefreshing {
		t.Fatalf("second trigger error = %v, want %v", err, ErrorRefreshing)
	}
	if c.loads != 1 || len(c.errors) != 1 || c.errors[0] != ErrorRefreshing {
		t.Fatalf("loads = %d errors = %v", c.loads, c.errors)
	}
	if m.State() != StateLoading {
		t.Fatalf("state = %v", m.State())
	}
}

func TestMachine_ReleaseWhileOtherEdgeLoading(t *testing.T) {
	busy := &Busy{}
	bottom := NewMachine(EdgeBottom, busy)
	more := &calls{}
	bottom.SetListener(more.onLoad, more.onError)
	if err := bottom.Trigger(); err != nil {
		t.Fatalf("bottom trigger: %v", err)
	}

	top := NewMachine(EdgeTop, busy)
	r := &recorder{}
	c := &calls{}
	top.SetThreshold(4)
	top.SetPresenter(r)
	top.SetListener(c.onLoad, c.onError)

	top.Drag(2)
	top.Drag(6)
	if top.State() != StateReleaseToLoad {
		t.Fatalf("state = %v, want release", top.State())
	}
	top.Release()
	if len(c.errors) != 1 || c.errors[0] != ErrorLoadingMore || c.loads != 0 {
		t.Fatalf("loads = %d errors = %v", c.loads, c.errors)
	}
	if top.State() != StateIdle || r.state != StateIdle || r.offset != -4 {
		t.Fatalf("state = %v presented %v offset %d", top.State(), r.state, r.offset)
	}
	if bottom.State() != StateLoading || more.loads != 1 {
		t.Fatalf("bottom state = %v loads = %d", bottom.State(), more.loads)
	}
}

func TestMachine_SettleWhileLoading(t *testing.T) {
	m := NewMachine(EdgeBottom, nil)
	c := &calls{}
	m.SetListener(c.onLoad, c.onError)
	m.Settle(true)
	m.Settle(false)
	if len(c.errors) != 0 {
		t.Fatalf("settle away from the bottom reported %v", c.errors)
	}
	m.Settle(true)
	if c.loads != 1 || m.State() != StateLoading {
		t.Fatalf("loads = %d state = %v", c.loads, m.State())
	}
	if len(c.errors) != 1 || c.errors[0] != ErrorLoadingMore {
		t.Fatalf("errors = %v", c.errors)
	}
}

func TestMachine_NegativeThresholdPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewMachine(EdgeTop, nil).SetThreshold(-1)
}

func TestMachine_SettleAutoLoad(t *testing.T) {
	type tc struct {
		edge       Edge
		mode       LoadMode
		atBoundary bool
		loads      int
		state      State
	}

	tests := map[string]tc{
		"auto mode at bottom loads": {
			edge: EdgeBottom, mode: LoadModeAuto, atBoundary: true, loads: 1, state: StateLoading,
		},
		"auto mode away from bottom": {
			edge: EdgeBottom, mode: LoadModeAuto, atBoundary: false, loads: 0, state: StateIdle,
		},
		"pull mode does not auto load": {
			edge: EdgeBottom, mode: LoadModePull, atBoundary: true, loads: 0, state: StateIdle,
		},
		"top edge never auto loads": {
			edge: EdgeTop, mode: LoadModeAuto, atBoundary: true, loads: 0, state: StateIdle,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMachine(tt.edge, nil)
			c := &calls{}
			m.SetLoadMode(tt.mode)
			m.SetListener(c.onLoad, c.onError)
			m.Settle(tt.atBoundary)
			if c.loads != tt.loads || m.State() != tt.state {
				t.Fatalf("loads = %d state = %v, want %d %v", c.loads, m.State(), tt.loads, tt.state)
			}
		})
	}
}

func TestMachine_NoMoreDataLabel(t *testing.T) {
	m := NewMachine(EdgeBottom, nil)
	r := &recorder{}
	c := &calls{}
	m.SetPresenter(r)
	m.SetListener(c.onLoad, c.onError)

	m.Settle(true)
	m.Complete(false)
	if r.label != defaultNoMoreData {
		t.Fatalf("label = %q", r.label)
	}

	m.Settle(true)
	if c.loads != 1 || m.State() != StateIdle {
		t.Fatalf("loads = %d state = %v after exhaustion", c.loads, m.State())
	}

	m.Complete(true)
	if r.label != "" || !m.Enabled() {
		t.Fatalf("label = %q enabled = %v after re-arm", r.label, m.Enabled())
	}
}

func TestMachine_BottomPullMode(t *testing.T) {
	m := NewMachine(EdgeBottom, nil)
	r := &recorder{}
	c := &calls{}
	m.SetThreshold(6)
	m.SetLoadMode(LoadModePull)
	m.SetPresenter(r)
	m.SetListener(c.onLoad, c.onError)

	m.Drag(2)
	if r.arrow != ArrowUp {
		t.Fatalf("pull arrow = %v, want up", r.arrow)
	}
	m.Drag(6)
	if r.arrow != ArrowDown || m.State() != StateReleaseToLoad {
		t.Fatalf("release arrow = %v state = %v", r.arrow, m.State())
	}
	m.Release()
	if c.loads != 1 || m.State() != StateLoading {
		t.Fatalf("loads = %d state = %v", c.loads, m.State())
	}
}

func TestMachine_BottomAutoModeIgnoresDrag(t *testing.T) {
	m := NewMachine(EdgeBottom, nil)
	c := &calls{}
	m.SetListener(c.onLoad, c.onError)
	if m.Drag(10) {
		t.Fatal("auto-mode footer consumed a drag")
	}
}
