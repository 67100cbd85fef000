package pullview

import (
	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/pullview/pull"
)

var defaultCaptions = map[pull.Edge]map[pull.State]string{
	pull.EdgeTop: {
		pull.StateIdle:          "Pull down to refresh",
		pull.StatePullToLoad:    "Pull down to refresh",
		pull.StateReleaseToLoad: "Release to refresh",
		pull.StateLoading:       "Refreshing" + SemigraphicsHorizontalEllipsis,
	},
	pull.EdgeBottom: {
		pull.StateIdle:          "Pull up to load more",
		pull.StatePullToLoad:    "Pull up to load more",
		pull.StateReleaseToLoad: "Release to load more",
		pull.StateLoading:       "Loading" + SemigraphicsHorizontalEllipsis,
	},
}

// Indicator is the header or footer of a PullList. It implements
// pull.Presenter: the engine tells it which state to show and how far it is
// revealed, and the PullList gives it Rows() rows of screen.
//
// A header shows its bottom rows first as it slides in, a footer its top
// rows. The caption sits next to the list, the label on the far side.
type Indicator struct {
	*Box

	edge      pull.Edge
	state     pull.State
	offset    int
	threshold int
	arrow     pull.Arrow
	label     string
	frame     int

	labelVisible bool
	captions     map[pull.State]string

	captionStyle   tcell.Style
	releaseStyle   tcell.Style
	labelStyle     tcell.Style
	exhaustedStyle tcell.Style
	arrowStyle     tcell.Style
	spinnerStyle   tcell.Style
}

// NewIndicator returns an idle, fully hidden indicator for edge.
func NewIndicator(edge pull.Edge) *Indicator {
	captions := make(map[pull.State]string, len(defaultCaptions[edge]))
	for state, caption := range defaultCaptions[edge] {
		captions[state] = caption
	}
	background := Styles.PrimitiveBackgroundColor
	return &Indicator{
		Box:            NewBox(),
		edge:           edge,
		labelVisible:   true,
		captions:       captions,
		captionStyle:   tcell.StyleDefault.Foreground(Styles.IndicatorTextColor).Background(background),
		releaseStyle:   tcell.StyleDefault.Foreground(Styles.IndicatorReleaseColor).Background(background).Bold(true),
		labelStyle:     tcell.StyleDefault.Foreground(Styles.SecondaryTextColor).Background(background).Dim(true),
		exhaustedStyle: tcell.StyleDefault.Foreground(Styles.IndicatorExhaustedColor).Background(background).Italic(true),
		arrowStyle:     tcell.StyleDefault.Foreground(Styles.IndicatorArrowColor).Background(background),
		spinnerStyle:   tcell.StyleDefault.Foreground(Styles.IndicatorSpinnerColor).Background(background),
	}
}

func (i *Indicator) SetState(edge pull.Edge, state pull.State) {
	if i.state == state {
		return
	}
	i.state = state
	if state == pull.StateLoading {
		i.frame = 0
	}
	i.MarkDirty()
}

func (i *Indicator) SetOffset(offset int) {
	if i.offset != offset {
		i.offset = offset
		i.MarkDirty()
	}
}

func (i *Indicator) SetArrow(arrow pull.Arrow) {
	if i.arrow != arrow {
		i.arrow = arrow
		i.MarkDirty()
	}
}

func (i *Indicator) SetLabel(text string) {
	if i.label != text {
		i.label = text
		i.MarkDirty()
	}
}

// SetThreshold sets the number of rows the indicator has when fully shown.
func (i *Indicator) SetThreshold(rows int) *Indicator {
	rows = max(rows, 0)
	if i.threshold != rows {
		i.threshold = rows
		i.MarkDirty()
	}
	return i
}

// SetLabelVisible shows or hides the secondary label, such as the last
// update time.
func (i *Indicator) SetLabelVisible(visible bool) *Indicator {
	if i.labelVisible != visible {
		i.labelVisible = visible
		i.MarkDirty()
	}
	return i
}

// SetCaption overrides the caption shown in state.
func (i *Indicator) SetCaption(state pull.State, caption string) *Indicator {
	i.captions[state] = caption
	i.MarkDirty()
	return i
}

func (i *Indicator) Caption() string {
	return i.captions[i.state]
}

func (i *Indicator) Label() string {
	return i.label
}

func (i *Indicator) State() pull.State {
	return i.state
}

// Rows returns how many rows the indicator currently occupies. An idle
// footer keeps one row while it has a label, so the no-more-data hint stays
// on screen.
func (i *Indicator) Rows() int {
	rows := max(i.threshold+i.offset, 0)
	if rows == 0 && i.edge == pull.EdgeBottom && i.state == pull.StateIdle && i.showLabel() {
		return 1
	}
	return rows
}

// Tick advances the spinner. It reports whether the indicator is still
// loading and wants further ticks.
func (i *Indicator) Tick() bool {
	if i.state != pull.StateLoading {
		return false
	}
	i.frame = (i.frame + 1) % len(SpinnerFrames)
	i.MarkDirty()
	return true
}

func (i *Indicator) showLabel() bool {
	return i.labelVisible && i.label != ""
}

// lines returns the content rows ordered from the list outward.
func (i *Indicator) lines() []func(screen tcell.Screen, x, y, width int) {
	var lines []func(screen tcell.Screen, x, y, width int)
	if i.edge == pull.EdgeBottom && i.state == pull.StateIdle && i.threshold+i.offset <= 0 {
		// Only the resting footer label is left.
		if i.showLabel() {
			lines = append(lines, i.drawExhausted)
		}
		return lines
	}
	lines = append(lines, i.drawCaption)
	if i.showLabel() {
		lines = append(lines, i.drawLabel)
	}
	return lines
}

func (i *Indicator) Draw(screen tcell.Screen) {
	i.DrawForSubclass(screen, i)

	x, y, width, height := i.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	for n, draw := range i.lines() {
		if n >= height {
			break
		}
		row := y + n
		if i.edge == pull.EdgeTop {
			row = y + height - 1 - n
		}
		draw(screen, x, row, width)
	}
}

func (i *Indicator) drawCaption(screen tcell.Screen, x, y, width int) {
	glyph, glyphStyle := " ", i.arrowStyle
	switch {
	case i.state == pull.StateLoading:
		glyph, glyphStyle = SpinnerFrames[i.frame], i.spinnerStyle
	case i.arrow == pull.ArrowDown:
		glyph = ArrowDownGlyph
	case i.arrow == pull.ArrowUp:
		glyph = ArrowUpGlyph
	}

	style := i.captionStyle
	if i.state == pull.StateReleaseToLoad {
		style = i.releaseStyle
	}

	caption := i.captions[i.state]
	text := TruncateString(caption, max(width-2, 0))
	total := StringWidth(text) + 2
	start := x + max((width-total)/2, 0)
	PrintWithStyle(screen, glyph, start, y, 1, AlignmentLeft, glyphStyle)
	PrintWithStyle(screen, text, start+2, y, width-(start-x)-2, AlignmentLeft, style)
}

func (i *Indicator) drawLabel(screen tcell.Screen, x, y, width int) {
	PrintWithStyle(screen, TruncateString(i.label, width), x, y, width, AlignmentCenter, i.labelStyle)
}

func (i *Indicator) drawExhausted(screen tcell.Screen, x, y, width int) {
	PrintWithStyle(screen, TruncateString(i.label, width), x, y, width, AlignmentCenter, i.exhaustedStyle)
}

var _ pull.Presenter = (*Indicator)(nil)
