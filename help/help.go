// Package help draws key binding hints for a KeyMap, either as a single line
// or as one line per binding group.
package help

import (
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/pullview"
	"github.com/xqrs/pullview/keybind"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups. Each group is drawn on its own line.
	FullHelp() [][]keybind.Keybind
}

type Help struct {
	*pullview.Box
	Styles Styles

	keyMap    KeyMap
	showAll   bool
	separator string
	ellipsis  string
}

func New() *Help {
	return &Help{
		Box:       pullview.NewBox(),
		Styles:    DefaultStyles(),
		separator: " • ",
		ellipsis:  pullview.SemigraphicsHorizontalEllipsis,
	}
}

func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	h.MarkDirty()
	return h
}

// SetShowAll switches between the single line and the grouped layout.
func (h *Help) SetShowAll(showAll bool) *Help {
	if h.showAll != showAll {
		h.showAll = showAll
		h.MarkDirty()
	}
	return h
}

func (h *Help) ShowAll() bool {
	return h.showAll
}

func (h *Help) SetSeparator(separator string) *Help {
	h.separator = separator
	h.MarkDirty()
	return h
}

// Height returns the number of rows the help needs in its current mode.
func (h *Help) Height() int {
	if h.keyMap == nil || !h.showAll {
		return 1
	}
	return max(len(h.Lines(0)), 1)
}

func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)
	if h.keyMap == nil {
		return
	}

	x, y, width, height := h.GetInnerRect()
	var lines [][]segment
	if h.showAll {
		for _, group := range h.keyMap.FullHelp() {
			if line := h.line(group, width); len(line) > 0 {
				lines = append(lines, line)
			}
		}
	} else {
		lines = [][]segment{h.line(h.keyMap.ShortHelp(), width)}
	}

	for row := 0; row < len(lines) && row < height; row++ {
		drawSegments(screen, x, y+row, width, lines[row])
	}
}

// Lines renders the help as plain text lines. A maxWidth of zero disables
// truncation.
func (h *Help) Lines(maxWidth int) []string {
	if h.keyMap == nil {
		return nil
	}
	groups := [][]keybind.Keybind{h.keyMap.ShortHelp()}
	if h.showAll {
		groups = h.keyMap.FullHelp()
	}

	var lines []string
	for _, group := range groups {
		line := h.line(group, maxWidth)
		if len(line) == 0 {
			continue
		}
		var b strings.Builder
		for _, s := range line {
			b.WriteString(s.text)
		}
		lines = append(lines, b.String())
	}
	return lines
}

type segment struct {
	text  string
	style tcell.Style
}

// line joins the enabled bindings with the separator. Bindings that do not
// fit are replaced by an ellipsis when there is room for it.
func (h *Help) line(bindings []keybind.Keybind, maxWidth int) []segment {
	var out []segment
	for _, kb := range bindings {
		if !kb.Enabled() {
			continue
		}
		item := h.item(kb)
		if len(item) == 0 {
			continue
		}

		candidate := out
		if len(out) > 0 {
			candidate = append(cloneSegments(out), segment{text: h.separator, style: h.Styles.SeparatorStyle})
		}
		candidate = append(candidate, item...)
		if maxWidth > 0 && segmentsWidth(candidate) > maxWidth {
			tail := []segment{{text: " " + h.ellipsis, style: h.Styles.EllipsisStyle}}
			if len(out) > 0 && segmentsWidth(out)+segmentsWidth(tail) <= maxWidth {
				out = append(out, tail...)
			}
			return out
		}
		out = candidate
	}
	return out
}

func (h *Help) item(kb keybind.Keybind) []segment {
	help := kb.Help()
	switch {
	case help.Key == "" && help.Desc == "":
		return nil
	case help.Key == "":
		return []segment{{text: help.Desc, style: h.Styles.DescStyle}}
	case help.Desc == "":
		return []segment{{text: help.Key, style: h.Styles.KeyStyle}}
	}
	return []segment{
		{text: help.Key, style: h.Styles.KeyStyle},
		{text: " " + help.Desc, style: h.Styles.DescStyle},
	}
}

func drawSegments(screen tcell.Screen, x, y, width int, segments []segment) {
	for _, s := range segments {
		if width <= 0 {
			return
		}
		printed := pullview.PrintWithStyle(screen, s.text, x, y, width, pullview.AlignmentLeft, s.style)
		x += printed
		width -= printed
	}
}

func segmentsWidth(segments []segment) int {
	width := 0
	for _, s := range segments {
		width += pullview.StringWidth(s.text)
	}
	return width
}

func cloneSegments(in []segment) []segment {
	out := make([]segment, len(in))
	copy(out, in)
	return out
}
