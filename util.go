package pullview

import "github.com/gdamore/tcell/v3"

type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// Print prints text at (x, y) in color, keeping the background already on
// screen. At most maxWidth cells are used. It returns the width printed.
func Print(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, color tcell.Color) int {
	return printText(screen, text, x, y, maxWidth, alignment, tcell.StyleDefault.Foreground(color), true)
}

// PrintWithStyle prints text with style, background included. It returns the
// width printed.
func PrintWithStyle(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) int {
	return printText(screen, text, x, y, maxWidth, alignment, style, false)
}

// printText lays text out in the maxWidth cells starting at x. Text that is
// too wide loses clusters on the right when left aligned, on the left when
// right aligned and on both sides when centered.
func printText(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style, keepBackground bool) int {
	screenWidth, screenHeight := screen.Size()
	if maxWidth <= 0 || text == "" || y < 0 || y >= screenHeight {
		return 0
	}

	parts := clusters(text)
	total := 0
	for _, c := range parts {
		total += c.width
	}

	switch alignment {
	case AlignmentRight:
		for len(parts) > 0 && total > maxWidth {
			total -= parts[0].width
			parts = parts[1:]
		}
		x += maxWidth - total
	case AlignmentCenter:
		for overflow := (total - maxWidth) / 2; len(parts) > 0 && overflow > 0; {
			overflow -= parts[0].width
			total -= parts[0].width
			parts = parts[1:]
		}
		if total < maxWidth {
			x += (maxWidth - total) / 2
		}
	}

	end := min(x+min(total, maxWidth), screenWidth)
	printed := 0
	for _, c := range parts {
		if x+c.width > end {
			break
		}
		if c.width > 0 {
			cellStyle := style
			if keepBackground {
				_, existing, _ := screen.Get(x, y)
				cellStyle = style.Background(existing.GetBackground())
			}
			screen.Put(x, y, c.text, cellStyle)
			// Wide clusters own the cells after them.
			for i := 1; i < c.width; i++ {
				screen.Put(x+i, y, " ", cellStyle)
			}
		}
		x += c.width
		printed += c.width
	}
	return printed
}

// fillRow paints width cells of row y with style.
func fillRow(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.Put(x+i, y, " ", style)
	}
}
