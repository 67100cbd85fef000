package pullview

import "github.com/rivo/uniseg"

// cluster is one grapheme cluster and the cells it takes on screen.
type cluster struct {
	text  string
	width int
}

// clusters splits text into grapheme clusters.
func clusters(text string) []cluster {
	var (
		out   []cluster
		c     string
		b     int
		state = -1
	)
	for text != "" {
		c, text, b, state = uniseg.StepString(text, state)
		out = append(out, cluster{text: c, width: b >> uniseg.ShiftWidth})
	}
	return out
}

// StringWidth returns the number of cells text occupies on screen.
func StringWidth(text string) int {
	return uniseg.StringWidth(text)
}

// TruncateString shortens text to at most width cells, replacing the cut tail
// with an ellipsis.
func TruncateString(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(text) <= width {
		return text
	}
	used, end := 0, 0
	for _, c := range clusters(text) {
		if used+c.width > width-1 {
			break
		}
		used += c.width
		end += len(c.text)
	}
	return text[:end] + SemigraphicsHorizontalEllipsis
}
