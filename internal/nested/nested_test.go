package nested

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/nestscroll/internal/scroll"
)

// listContent is a fixed list of rows scrolled by a top index.
type listContent struct {
	rows   []string
	top    int
	height int
}

func newListContent(n int) *listContent {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("row %02d", i)
	}
	return &listContent{rows: rows}
}

func (c *listContent) maxTop() int {
	h := c.height
	if h <= 0 {
		h = 1
	}
	if m := len(c.rows) - h; m > 0 {
		return m
	}
	return 0
}

func (c *listContent) ScrollBy(delta float64) float64 {
	prev := c.top
	c.top -= int(delta)
	if c.top < 0 {
		c.top = 0
	}
	if c.top > c.maxTop() {
		c.top = c.maxTop()
	}
	return float64(prev - c.top)
}

func (c *listContent) View(width, height int) string {
	c.height = height
	end := c.top + height
	if end > len(c.rows) {
		end = len(c.rows)
	}
	return strings.Join(c.rows[c.top:end], "\n")
}

func header(lines int) func(int) string {
	return func(int) string {
		out := make([]string, lines)
		for i := range out {
			out[i] = fmt.Sprintf("head %d", i)
		}
		return strings.Join(out, "\n")
	}
}

func newCoordinator(t *testing.T, s scroll.State) *scroll.Coordinator {
	t.Helper()
	c, err := scroll.New(context.Background(), scroll.WithState(s), scroll.WithFrames(scroll.FixedFrames(16*time.Millisecond)))
	if err != nil {
		t.Fatalf("scroll.New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func settle(t *testing.T, c *scroll.Coordinator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
}

func rows(view string) []string {
	out := strings.Split(view, "\n")
	for i := range out {
		out[i] = strings.TrimRight(out[i], " ")
	}
	return out
}

func TestArrangeExpanded(t *testing.T) {
	coord := newCoordinator(t, scroll.State{})
	content := newListContent(20)
	l := Layout{Header: header(3), Content: content.View, Coordinator: coord}

	f := l.Arrange(12, 6)
	if f.HeaderY != 0 || f.HeaderHeight != 3 || f.ContentY != 3 {
		t.Fatalf("frame = %+v, want header at 0 (3 rows), content at 3", f)
	}
	if got := coord.CollapseRange(); got != 3 {
		t.Fatalf("collapse range = %v, want 3", got)
	}
	want := []string{"head 0", "head 1", "head 2", "row 00", "row 01", "row 02"}
	if got := rows(f.View); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("view = %q, want %q", got, want)
	}
	for i, line := range strings.Split(f.View, "\n") {
		if len(line) != 12 {
			t.Fatalf("line %d width = %d, want 12", i, len(line))
		}
	}
}

func TestArrangePartiallyCollapsed(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: -2, CollapseRange: 3})
	content := newListContent(20)
	l := Layout{Header: header(3), Content: content.View, Coordinator: coord}

	f := l.Arrange(12, 4)
	if f.HeaderY != -2 || f.ContentY != 1 {
		t.Fatalf("frame = %+v, want header at -2, content at 1", f)
	}
	want := []string{"head 2", "row 00", "row 01", "row 02"}
	if got := rows(f.View); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("view = %q, want %q", got, want)
	}
	if !f.InHeader(0) || f.InHeader(1) {
		t.Fatalf("hit test wrong for frame %+v", f)
	}
}

func TestArrangeShrinkingHeaderReclampsOffset(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: -5, CollapseRange: 5})
	l := Layout{Header: header(2), Content: newListContent(10).View, Coordinator: coord}

	f := l.Arrange(10, 4)
	if got := coord.Offset(); got != -2 {
		t.Fatalf("offset = %v, want -2 after header shrank", got)
	}
	if f.ContentY != 0 {
		t.Fatalf("content y = %d, want 0", f.ContentY)
	}
}

func TestArrangeTruncatesWideLines(t *testing.T) {
	coord := newCoordinator(t, scroll.State{})
	l := Layout{
		Header:      func(int) string { return "a header line that is too wide" },
		Content:     func(int, int) string { return "" },
		Coordinator: coord,
	}
	f := l.Arrange(8, 2)
	if got := rows(f.View)[0]; got != "a header" {
		t.Fatalf("first row = %q, want truncated header", got)
	}
}

func TestDispatchCollapsesBeforeContentScrolls(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: 0, CollapseRange: 3})
	content := newListContent(20)
	content.height = 5
	conn := Connection{Coordinator: coord}

	if got := conn.Dispatch(-2, SourceDrag, content); got != -2 {
		t.Fatalf("consumed = %v, want -2", got)
	}
	settle(t, coord)
	if coord.Offset() != -2 || content.top != 0 {
		t.Fatalf("offset=%v top=%d, want header to take the whole drag", coord.Offset(), content.top)
	}

	conn.Dispatch(-1, SourceDrag, content)
	settle(t, coord)
	conn.Dispatch(-4, SourceDrag, content)
	settle(t, coord)
	if coord.Offset() != -3 || content.top != 4 {
		t.Fatalf("offset=%v top=%d, want collapsed header and scrolled content", coord.Offset(), content.top)
	}
}

func TestDispatchExpandsAfterContentReachesTop(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: -3, CollapseRange: 3})
	content := newListContent(20)
	content.height = 5
	content.top = 1
	conn := Connection{Coordinator: coord}

	if got := conn.Dispatch(3, SourceDrag, content); got != 3 {
		t.Fatalf("consumed = %v, want 3", got)
	}
	settle(t, coord)
	if content.top != 0 || coord.Offset() != -1 {
		t.Fatalf("top=%d offset=%v, want content at top then header expanded by 2", content.top, coord.Offset())
	}
}

func TestDispatchFlingSourceNeverMovesHeader(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: -1, CollapseRange: 3})
	content := newListContent(20)
	content.height = 5
	conn := Connection{Coordinator: coord}

	if got := conn.Dispatch(4, SourceFling, content); got != 0 {
		t.Fatalf("consumed = %v, want 0 with content at top", got)
	}
	conn.Dispatch(-2, SourceFling, content)
	settle(t, coord)
	if coord.Offset() != -1 || content.top != 2 {
		t.Fatalf("offset=%v top=%d, want only the content to move", coord.Offset(), content.top)
	}
}

func TestPreFlingReportsCoordinatorResult(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: 0, CollapseRange: 3})
	conn := Connection{Coordinator: coord}
	if got := conn.PreFling(context.Background(), 40); got != 40 {
		t.Fatalf("pre-fling = %v, want 40 with header expanded", got)
	}
	if got := conn.PostFling(context.Background(), 0, 0); got != 0 {
		t.Fatalf("post-fling of nothing = %v", got)
	}
}

func TestVelocityTracker(t *testing.T) {
	base := time.Unix(0, 0)
	var v VelocityTracker
	v.Add(base, 10)
	v.Add(base.Add(20*time.Millisecond), 8)
	v.Add(base.Add(40*time.Millisecond), 6)
	if got := v.VelocityAt(base.Add(45 * time.Millisecond)); math.Abs(got+100) > 1e-6 {
		t.Fatalf("velocity = %v, want -100 rows/s", got)
	}
	if got := v.VelocityAt(base.Add(200 * time.Millisecond)); got != 0 {
		t.Fatalf("velocity after pause = %v, want 0", got)
	}

	v.Add(base.Add(300*time.Millisecond), 6)
	if got := v.VelocityAt(base.Add(300 * time.Millisecond)); got != 0 {
		t.Fatalf("stale samples should be dropped, got %v", got)
	}
	v.Reset()
	if got := v.VelocityAt(base); got != 0 {
		t.Fatalf("empty tracker velocity = %v", got)
	}
}

// pump runs cmd and feeds every resulting message back into m until nothing
// is left to do.
func pump(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 20000 {
			t.Fatal("model never settled")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case nil:
		default:
			queue = append(queue, m.Update(msg))
		}
	}
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestModelWheelRouting(t *testing.T) {
	coord := newCoordinator(t, scroll.State{})
	content := newListContent(30)
	m := New(context.Background(), coord, header(3), content, WithFrameInterval(time.Millisecond))
	m.SetSize(20, 8)
	m.View()

	m.Update(tea.MouseMsg{X: 1, Y: 6, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	settle(t, coord)
	if coord.Offset() != -1 || content.top != 0 {
		t.Fatalf("offset=%v top=%d, want wheel to collapse header first", coord.Offset(), content.top)
	}

	m.View()
	m.Update(tea.MouseMsg{X: 1, Y: 0, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	settle(t, coord)
	if coord.Offset() != 0 {
		t.Fatalf("offset=%v, want wheel over header to expand it", coord.Offset())
	}
}

func TestModelPointerDrag(t *testing.T) {
	coord := newCoordinator(t, scroll.State{})
	content := newListContent(30)
	clock := &stepClock{now: time.Unix(100, 0)}
	m := New(context.Background(), coord, header(3), content,
		WithClock(clock.Now), WithFrameInterval(time.Millisecond), WithDecay(scroll.NewDecay(4, 0.5)))
	m.SetSize(20, 10)
	m.View()

	m.Update(tea.MouseMsg{Y: 7, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	for _, y := range []int{6, 5, 4, 3, 2} {
		clock.advance(10 * time.Millisecond)
		m.Update(tea.MouseMsg{Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
		settle(t, coord)
	}
	if coord.Offset() != -3 {
		t.Fatalf("offset = %v, want header collapsed", coord.Offset())
	}
	if content.top != 2 {
		t.Fatalf("content top = %d, want the overflow scrolled into content", content.top)
	}

	clock.advance(5 * time.Millisecond)
	cmd := m.Update(tea.MouseMsg{Y: 2, Action: tea.MouseActionRelease})
	if cmd == nil {
		t.Fatal("release with velocity should start a fling")
	}
	pump(t, m, cmd)
	if m.Busy() {
		t.Fatal("model still busy after pumping")
	}
	if content.top <= 2 {
		t.Fatalf("content top = %d, want the fling to keep scrolling content", content.top)
	}
	if coord.Offset() != -3 {
		t.Fatalf("offset = %v, want header to stay collapsed", coord.Offset())
	}
}

func TestModelContentFlingOverflowsIntoHeader(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: -3, CollapseRange: 3})
	content := newListContent(30)
	content.top = 1
	m := New(context.Background(), coord, header(3), content,
		WithFrameInterval(time.Millisecond), WithDecay(scroll.NewDecay(4, 0.5)))
	m.SetSize(20, 10)
	m.View()

	// A downward fling the header did not claim: the content scrolls to its
	// top and offers the rest back, which a fully collapsed header ignores.
	m.flingSeq = 1
	pump(t, m, m.Update(preFlingDoneMsg{id: 1, available: 60, consumed: 0}))
	if content.top != 0 {
		t.Fatalf("content top = %d, want 0", content.top)
	}
	if coord.Offset() != -3 {
		t.Fatalf("offset = %v, want -3", coord.Offset())
	}
}

func TestModelIgnoresStalePreFling(t *testing.T) {
	coord := newCoordinator(t, scroll.State{})
	content := newListContent(30)
	m := New(context.Background(), coord, header(3), content, WithFrameInterval(time.Millisecond))
	m.flingSeq = 2
	m.inflight = 1
	m.Update(preFlingDoneMsg{id: 1, available: -50})
	if m.fling != nil {
		t.Fatal("stale pre-fling result started a content fling")
	}
	if m.inflight != 0 {
		t.Fatalf("inflight = %d, want 0", m.inflight)
	}
}

func TestModelGestureSupersedesRunningPreFling(t *testing.T) {
	frames := make(chan time.Duration)
	coord, err := scroll.New(context.Background(),
		scroll.WithState(scroll.State{Offset: -1, CollapseRange: 3}),
		scroll.WithFrames(scroll.ChannelFrames(frames)))
	if err != nil {
		t.Fatalf("scroll.New: %v", err)
	}
	t.Cleanup(coord.Close)
	content := newListContent(30)
	m := New(context.Background(), coord, header(3), content, WithFrameInterval(time.Millisecond))
	m.SetSize(20, 10)
	coord.Drag(-1)
	settle(t, coord)
	m.View()

	batch, ok := m.preFling(-40)().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("preFling did not batch its fling")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- batch[0]() }()
	frames <- 16 * time.Millisecond

	// The user wheels up over the content while the header is still decaying.
	m.Update(tea.MouseMsg{X: 1, Y: 8, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pre-fling was not interrupted")
	}
	m.Update(msg)
	if m.fling != nil {
		t.Fatalf("content fling started after a new gesture: %+v", m.fling)
	}
	if m.inflight != 0 {
		t.Fatalf("inflight = %d, want 0", m.inflight)
	}
}

func TestModelPreFlingAfterCloseStartsNothing(t *testing.T) {
	coord := newCoordinator(t, scroll.State{Offset: -3, CollapseRange: 3})
	content := newListContent(30)
	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx, coord, header(3), content, WithFrameInterval(time.Millisecond))
	m.flingSeq = 1
	m.inflight = 1
	cancel()

	m.Update(preFlingDoneMsg{id: 1, available: -50})
	if m.fling != nil {
		t.Fatal("content fling started after the model's context ended")
	}
}
