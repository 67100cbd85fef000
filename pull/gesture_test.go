package pull

import "testing"

func TestTracker_Move(t *testing.T) {
	type move struct {
		y        int
		atTop    bool
		atBottom bool
		delta    int
		ok       bool
	}
	type tc struct {
		down  *move
		moves []move
	}

	tests := map[string]tc{
		"delta is scaled by the offset ratio": {
			down: &move{y: 10, atTop: true},
			moves: []move{
				{y: 40, atTop: true, delta: 10, ok: true},
				{y: 41, atTop: true, delta: 10, ok: true},
				{y: 42, atTop: true, delta: 10, ok: true},
				{y: 43, atTop: true, delta: 11, ok: true},
			},
		},
		"negative delta truncates toward zero": {
			down: &move{y: 100, atBottom: true},
			moves: []move{
				{y: 98, atBottom: true, delta: 0, ok: true},
				{y: 96, atBottom: true, delta: -1, ok: true},
				{y: 90, atBottom: true, delta: -3, ok: true},
			},
		},
		"move without down arms lazily": {
			moves: []move{
				{y: 50, atTop: true, delta: 0, ok: true},
				{y: 65, atTop: true, delta: 5, ok: true},
			},
		},
		"no boundary yields nothing": {
			down: &move{y: 0},
			moves: []move{
				{y: 30, delta: 0, ok: false},
				{y: 60, atTop: true, delta: 0, ok: true},
				{y: 90, atTop: true, delta: 10, ok: true},
			},
		},
		"anchor survives boundary flip": {
			down: &move{y: 0, atTop: true},
			moves: []move{
				{y: 30, atTop: true, delta: 10, ok: true},
				{y: 60, atBottom: true, delta: 20, ok: true},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var tr Tracker
			if tt.down != nil {
				tr.Down(tt.down.y, tt.down.atTop, tt.down.atBottom)
			}
			for i, m := range tt.moves {
				delta, ok := tr.Move(m.y, m.atTop, m.atBottom)
				if delta != m.delta || ok != m.ok {
					t.Errorf("move %d (y=%d): got (%d, %v), want (%d, %v)", i, m.y, delta, ok, m.delta, m.ok)
				}
			}
		})
	}
}

func TestTracker_DownCapturesOncePerGesture(t *testing.T) {
	var tr Tracker
	tr.Down(10, true, false)
	tr.Down(50, true, false)
	if got := tr.Anchor(); got != 10 {
		t.Fatalf("anchor = %d, want 10", got)
	}

	tr.Up()
	if tr.Recording() {
		t.Fatal("still recording after Up")
	}
	tr.Down(50, false, true)
	if got := tr.Anchor(); got != 50 {
		t.Fatalf("anchor after re-arm = %d, want 50", got)
	}
}

func TestTracker_DownAwayFromBoundary(t *testing.T) {
	var tr Tracker
	tr.Down(10, false, false)
	if tr.Recording() {
		t.Fatal("recording started away from any boundary")
	}
}
