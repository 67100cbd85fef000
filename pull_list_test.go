package pullview

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/pullview/pull"
)

// row is a one line list item.
type row struct {
	*Box
}

func (r *row) Height(width int) int { return 1 }

func rows(n *int) ListBuilder {
	return func(index, cursor int) ListItem {
		if index < 0 || index >= *n {
			return nil
		}
		return &row{Box: NewBox()}
	}
}

type loads struct {
	refresh, more int
	errors        []pull.ErrorCode
}

func newTestPullList(items int, mode pull.LoadMode) (*PullList, *loads, *int) {
	count := items
	l := &loads{}
	p := NewPullList(pull.WithLoadMode(mode))
	p.SetRect(0, 0, 40, 10)
	p.List().SetBuilder(rows(&count))
	p.SetRefreshFunc(func() { l.refresh++ }, func(code pull.ErrorCode) { l.errors = append(l.errors, code) })
	p.SetLoadMoreFunc(func() { l.more++ }, func(code pull.ErrorCode) { l.errors = append(l.errors, code) })
	p.relayout()
	p.list.UpdateView()
	return p, l, &count
}

func TestPullList_DragRefresh(t *testing.T) {
	p, l, _ := newTestPullList(50, pull.LoadModeAuto)

	p.touchDown(2)
	for _, y := range []int{5, 8, 11} {
		p.touchMove(y)
	}
	if got := p.Controller().State(pull.EdgeTop); got != pull.StateReleaseToLoad {
		t.Fatalf("state = %v, want release", got)
	}
	if p.header.Rows() != p.Controller().Threshold() {
		t.Fatalf("header rows = %d", p.header.Rows())
	}
	_, _, _, listHeight := p.list.GetRect()
	if listHeight != 10-p.header.Rows() {
		t.Fatalf("list height = %d with header rows %d", listHeight, p.header.Rows())
	}

	p.touchUp()
	if l.refresh != 1 || !p.Controller().Refreshing() {
		t.Fatalf("refresh calls = %d refreshing = %v", l.refresh, p.Controller().Refreshing())
	}
	if p.Animate() == nil {
		t.Fatal("no spinner while refreshing")
	}

	p.RefreshCompleted()
	if p.header.Rows() != 0 || p.Animate() != nil {
		t.Fatalf("header rows = %d after completion", p.header.Rows())
	}
	if p.header.Label() == "" {
		t.Fatal("missing last update label")
	}
}

func TestPullList_ShortDragScrollsNothing(t *testing.T) {
	p, l, _ := newTestPullList(50, pull.LoadModeAuto)
	p.touchDown(2)
	p.touchMove(4)
	p.touchUp()
	if l.refresh != 0 || p.Controller().State(pull.EdgeTop) != pull.StateIdle {
		t.Fatalf("refresh = %d state = %v", l.refresh, p.Controller().State(pull.EdgeTop))
	}
	if p.header.Rows() != 0 {
		t.Fatalf("header rows = %d", p.header.Rows())
	}
}

func TestPullList_DragMidListScrolls(t *testing.T) {
	p, l, _ := newTestPullList(50, pull.LoadModeAuto)
	p.list.Scroll(20)
	p.list.UpdateView()

	p.touchDown(8)
	p.touchMove(5)
	p.touchUp()
	if p.list.top != 23 {
		t.Fatalf("top = %d, want 23", p.list.top)
	}
	if l.refresh+l.more != 0 {
		t.Fatal("drag inside the list triggered a load")
	}
}

func TestPullList_AutoLoadOnScrollEnd(t *testing.T) {
	p, l, count := newTestPullList(12, pull.LoadModeAuto)

	cmd := p.InputHandler(tcell.NewEventKey(tcell.KeyPgDn, "", tcell.ModNone))
	if !p.list.AtBottom() {
		t.Fatal("page down did not reach the bottom")
	}
	if l.more != 1 || !p.Controller().LoadingMore() {
		t.Fatalf("load more calls = %d", l.more)
	}
	if p.footer.Rows() != p.Controller().Threshold() {
		t.Fatalf("footer rows = %d", p.footer.Rows())
	}
	if _, ok := findTick(cmd); !ok {
		t.Fatalf("command %#v has no spinner tick", cmd)
	}

	// Settling at the bottom again while loading is a rejected trigger.
	p.settle()
	if l.more != 1 || len(l.errors) != 1 || l.errors[0] != pull.ErrorLoadingMore {
		t.Fatalf("more = %d errors = %v", l.more, l.errors)
	}

	*count = 24
	p.LoadMoreCompleted(true)
	if p.Controller().LoadingMore() || p.footer.Rows() != 0 {
		t.Fatalf("footer rows = %d after completion", p.footer.Rows())
	}
}

func TestPullList_NoMoreData(t *testing.T) {
	p, l, _ := newTestPullList(3, pull.LoadModeAuto)
	p.settle()
	if l.more != 1 {
		t.Fatalf("more = %d", l.more)
	}
	p.LoadMoreCompleted(false)
	if p.footer.Rows() != 1 || p.footer.Label() == "" {
		t.Fatalf("footer rows = %d label = %q", p.footer.Rows(), p.footer.Label())
	}
	p.settle()
	if l.more != 1 {
		t.Fatal("exhausted list loaded again")
	}
}

func TestPullList_ClickWhileLoadingMore(t *testing.T) {
	p, l, _ := newTestPullList(3, pull.LoadModeAuto)
	p.settle()
	if !p.Controller().LoadingMore() {
		t.Fatal("short list did not load more")
	}

	p.touchDown(4)
	p.touchUp()
	if len(l.errors) != 0 {
		t.Fatalf("click reported %v", l.errors)
	}
	if l.more != 1 || !p.Controller().LoadingMore() {
		t.Fatalf("more = %d loading = %v", l.more, p.Controller().LoadingMore())
	}
}

func TestPullList_KeyboardTriggersAreExclusive(t *testing.T) {
	p, l, _ := newTestPullList(50, pull.LoadModePull)

	p.InputHandler(tcell.NewEventKey(tcell.KeyRune, "r", tcell.ModNone))
	p.InputHandler(tcell.NewEventKey(tcell.KeyRune, "m", tcell.ModNone))
	if l.refresh != 1 || l.more != 0 {
		t.Fatalf("refresh = %d more = %d", l.refresh, l.more)
	}
	if len(l.errors) != 1 || l.errors[0] != pull.ErrorRefreshing {
		t.Fatalf("errors = %v", l.errors)
	}
	if err := p.LoadMore(); err != pull.ErrorRefreshing {
		t.Fatalf("LoadMore() = %v", err)
	}
}

func TestPullList_OverScrollDisabled(t *testing.T) {
	p, l, _ := newTestPullList(50, pull.LoadModeAuto)
	p.SetOverScrollable(false)
	p.touchDown(0)
	for y := 3; y <= 30; y += 3 {
		p.touchMove(y)
	}
	p.touchUp()
	if l.refresh != 0 || p.header.Rows() != 0 {
		t.Fatalf("refresh = %d header rows = %d", l.refresh, p.header.Rows())
	}
	if err := p.Refresh(); err != nil || l.refresh != 1 {
		t.Fatalf("Refresh() = %v calls = %d", err, l.refresh)
	}
}

func TestPullList_SetThreshold(t *testing.T) {
	p, _, _ := newTestPullList(50, pull.LoadModeAuto)
	p.SetThreshold(4)
	if p.Controller().Threshold() != 4 || p.header.threshold != 4 || p.footer.threshold != 4 {
		t.Fatalf("threshold = %d header %d footer %d", p.Controller().Threshold(), p.header.threshold, p.footer.threshold)
	}
	p.SetLoadMode(pull.LoadModePull)
	if p.LoadMode() != pull.LoadModePull || p.Controller().Threshold() != 4 {
		t.Fatalf("mode = %v threshold = %d", p.LoadMode(), p.Controller().Threshold())
	}
}

func TestPullList_ScrollFunc(t *testing.T) {
	p, _, _ := newTestPullList(30, pull.LoadModePull)
	var first, visible, total int
	p.SetScrollFunc(func(f, v, n int) { first, visible, total = f, v, n })
	p.list.Scroll(5)
	p.list.UpdateView()
	p.list.notifyScrolled(p.list.lastDraw[0].index, len(p.list.lastDraw))
	if first != 5 || visible != 10 || total != 30 {
		t.Fatalf("first = %d visible = %d total = %d", first, visible, total)
	}
}

func findTick(cmd Command) (TickCommand, bool) {
	switch c := cmd.(type) {
	case TickCommand:
		return c, true
	case BatchCommand:
		for _, item := range c {
			if tick, ok := findTick(item); ok {
				return tick, true
			}
		}
	}
	return TickCommand{}, false
}
