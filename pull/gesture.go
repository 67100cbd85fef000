package pull

// Tracker turns a single-pointer event stream into drag deltas relative to the
// point where the gesture started at a boundary.
//
// The anchor is captured once per gesture. If the content flips from one
// boundary to the other in the middle of a drag the anchor is kept; it is only
// re-armed after Up.
type Tracker struct {
	anchorY   int
	recording bool
}

// Down starts recording when the content rests at a boundary.
func (t *Tracker) Down(y int, atTop, atBottom bool) {
	if t.recording || !(atTop || atBottom) {
		return
	}
	t.recording = true
	t.anchorY = y
}

// Move returns the scaled delta y-anchor divided by OffsetRatio, truncated
// toward zero. A move observed at a boundary without a preceding Down starts
// recording at y. ok is false when the content is at neither boundary.
func (t *Tracker) Move(y int, atTop, atBottom bool) (delta int, ok bool) {
	if !(atTop || atBottom) {
		return 0, false
	}
	if !t.recording {
		t.recording = true
		t.anchorY = y
	}
	return (y - t.anchorY) / OffsetRatio, true
}

// Up ends the gesture.
func (t *Tracker) Up() {
	t.recording = false
}

// Recording reports whether a gesture anchor is held.
func (t *Tracker) Recording() bool {
	return t.recording
}

// Anchor returns the y coordinate the current gesture started at. It is only
// meaningful while Recording is true.
func (t *Tracker) Anchor() int {
	return t.anchorY
}
