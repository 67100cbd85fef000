package pullview

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
)

// Theme defines the colors primitives pick up when they are created.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	ContrastBackgroundColor  tcell.Color // Selected rows.
	BorderColor              tcell.Color
	TitleColor               tcell.Color
	PrimaryTextColor         tcell.Color
	SecondaryTextColor       tcell.Color // Labels such as the last update time.

	// Pull indicators.
	IndicatorTextColor      tcell.Color
	IndicatorArrowColor     tcell.Color
	IndicatorSpinnerColor   tcell.Color
	IndicatorReleaseColor   tcell.Color // Caption color once releasing would trigger.
	IndicatorExhaustedColor tcell.Color

	ScrollBarColor tcell.Color // Thumb of the scroll bar.
}

// Styles is the theme used by new primitives. The default is a black
// background with white text and a few accent colors.
var Styles = Theme{
	PrimitiveBackgroundColor: color.Black,
	ContrastBackgroundColor:  color.Blue,
	BorderColor:              color.White,
	TitleColor:               color.White,
	PrimaryTextColor:         color.White,
	SecondaryTextColor:       color.Yellow,

	IndicatorTextColor:      color.Silver,
	IndicatorArrowColor:     color.Aqua,
	IndicatorSpinnerColor:   color.Green,
	IndicatorReleaseColor:   color.Yellow,
	IndicatorExhaustedColor: color.Gray,

	ScrollBarColor: color.Silver,
}
