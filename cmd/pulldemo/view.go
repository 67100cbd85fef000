package main

import (
	"fmt"

	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"github.com/xqrs/pullview"
	"github.com/xqrs/pullview/help"
	"github.com/xqrs/pullview/internal/feed"
	"github.com/xqrs/pullview/keybind"
	"github.com/xqrs/pullview/pull"
)

// row draws one feed item.
type row struct {
	*pullview.Box
	item feed.Item
}

func newRow(item feed.Item, selected bool) *row {
	r := &row{Box: pullview.NewBox(), item: item}
	if selected {
		r.SetBackgroundColor(pullview.Styles.ContrastBackgroundColor)
	}
	return r
}

func (r *row) Height(width int) int { return 1 }

func (r *row) Draw(screen tcell.Screen) {
	r.DrawForSubclass(screen, r)
	x, y, width, _ := r.GetInnerRect()
	text := fmt.Sprintf("%4d  %s  %s", r.item.ID, r.item.Fetched.Format("15:04:05"), r.item.Title)
	pullview.Print(screen, pullview.TruncateString(text, width-1), x+1, y, width-1, pullview.AlignmentLeft, pullview.Styles.PrimaryTextColor)
}

// statusBar shows the visible range, the load mode and the last error.
type statusBar struct {
	*pullview.Box
	first, visible, total int
	mode                  pull.LoadMode
	err                   error
}

func newStatusBar() *statusBar {
	return &statusBar{Box: pullview.NewBox()}
}

func (s *statusBar) SetPosition(first, visible, total int) {
	s.first, s.visible, s.total = first, visible, total
	s.MarkDirty()
}

func (s *statusBar) SetMode(mode pull.LoadMode) {
	s.mode = mode
	s.MarkDirty()
}

func (s *statusBar) SetError(err error) {
	if s.err != err {
		s.err = err
		s.MarkDirty()
	}
}

func (s *statusBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)
	x, y, width, _ := s.GetInnerRect()

	position := "empty"
	if s.total > 0 {
		position = fmt.Sprintf("%d-%d of %d", s.first+1, s.first+s.visible, s.total)
	}
	left := fmt.Sprintf(" %s  load: %s", position, s.mode)
	pullview.Print(screen, left, x, y, width, pullview.AlignmentLeft, pullview.Styles.SecondaryTextColor)
	if s.err != nil {
		pullview.Print(screen, s.err.Error()+" ", x, y, width, pullview.AlignmentRight, color.Red)
	}
}

type layoutKeyMap struct {
	ToggleMode keybind.Keybind
	Help       keybind.Keybind
	Quit       keybind.Keybind
}

// layout stacks the list above the status bar and the help.
type layout struct {
	*pullview.Box

	KeyMap layoutKeyMap

	list   *pullview.PullList
	status *statusBar
	help   *help.Help

	onToggleMode func(mode pull.LoadMode)
}

func newLayout(list *pullview.PullList, status *statusBar, h *help.Help) *layout {
	return &layout{
		Box: pullview.NewBox(),
		KeyMap: layoutKeyMap{
			ToggleMode: keybind.NewKeybind(keybind.WithKeys("a"), keybind.WithHelp("a", "toggle auto load")),
			Help:       keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "more keys")),
			Quit:       keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
		},
		list:   list,
		status: status,
		help:   h,
	}
}

func (l *layout) ShortHelp() []keybind.Keybind {
	return append(l.list.ShortHelp(), l.KeyMap.Help, l.KeyMap.Quit)
}

func (l *layout) FullHelp() [][]keybind.Keybind {
	return append(l.list.FullHelp(), []keybind.Keybind{l.KeyMap.ToggleMode, l.KeyMap.Help, l.KeyMap.Quit})
}

func (l *layout) SetRect(x, y, width, height int) {
	l.Box.SetRect(x, y, width, height)
	helpRows := min(l.help.Height(), height)
	statusRows := min(1, height-helpRows)
	listRows := height - helpRows - statusRows
	l.list.SetRect(x, y, width, listRows)
	l.status.SetRect(x, y+listRows, width, statusRows)
	l.help.SetRect(x, y+listRows+statusRows, width, helpRows)
}

func (l *layout) Draw(screen tcell.Screen) {
	l.list.Draw(screen)
	l.status.Draw(screen)
	l.help.Draw(screen)
}

func (l *layout) InputHandler(event *tcell.EventKey) pullview.Command {
	switch {
	case keybind.Matches(event, l.KeyMap.Quit):
		return pullview.QuitCommand{}
	case keybind.Matches(event, l.KeyMap.Help):
		l.help.SetShowAll(!l.help.ShowAll())
		l.SetRect(l.GetRect())
		return pullview.RedrawCommand{}
	case keybind.Matches(event, l.KeyMap.ToggleMode):
		mode := pull.LoadModeAuto
		if l.list.LoadMode() == pull.LoadModeAuto {
			mode = pull.LoadModePull
		}
		l.list.SetLoadMode(mode)
		if l.onToggleMode != nil {
			l.onToggleMode(mode)
		}
		return pullview.RedrawCommand{}
	}
	return l.list.InputHandler(event)
}

func (l *layout) MouseHandler(action pullview.MouseAction, event *tcell.EventMouse) (pullview.Primitive, pullview.Command) {
	x, y := event.Position()
	if l.list.InRect(x, y) {
		return l.list.MouseHandler(action, event)
	}
	return nil, nil
}

func (l *layout) Focus(delegate func(p pullview.Primitive)) {
	delegate(l.list)
}

func (l *layout) HasFocus() bool {
	return l.list.HasFocus()
}

func (l *layout) IsDirty() bool {
	return l.Box.IsDirty() || l.list.IsDirty() || l.status.IsDirty() || l.help.IsDirty()
}

func (l *layout) MarkClean() {
	l.Box.MarkClean()
	l.list.MarkClean()
	l.status.MarkClean()
	l.help.MarkClean()
}
