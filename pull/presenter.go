package pull

// Presenter receives visual instructions from a Machine. Calls are
// fire-and-forget and never fail; the engine never reads back from it.
type Presenter interface {
	// SetState selects the caption and indicator for the given state.
	SetState(edge Edge, state State)
	// SetOffset sets the visible offset in [-threshold, 0]. -threshold is
	// fully collapsed and 0 fully revealed.
	SetOffset(offset int)
	// SetArrow sets the direction hint shown while dragging.
	SetArrow(arrow Arrow)
	// SetLabel sets the secondary line (last update time, no more data).
	SetLabel(text string)
}

// HeaderPresenter is the presenter attached to the top (refresh) edge.
type HeaderPresenter = Presenter

// FooterPresenter is the presenter attached to the bottom (load-more) edge.
type FooterPresenter = Presenter

// NopPresenter discards every instruction.
type NopPresenter struct{}

func (NopPresenter) SetState(Edge, State) {}
func (NopPresenter) SetOffset(int)        {}
func (NopPresenter) SetArrow(Arrow)       {}
func (NopPresenter) SetLabel(string)      {}

var _ Presenter = NopPresenter{}
