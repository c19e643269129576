package nested

import (
	"context"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/nestscroll/internal/scroll"
)

// Content is the nested, independently scrollable region.
type Content interface {
	Scrollable
	View(width, height int) string
}

// Model is a bubbletea component that lays out a collapsible header above
// content and routes vertical gestures between them.
type Model struct {
	ctx     context.Context
	coord   Coordinator
	conn    Connection
	layout  Layout
	content Content

	width, height int
	frame         Frame

	interval  time.Duration
	decay     scroll.Decay
	wheelStep float64
	now       func() time.Time

	drag     *dragState
	fling    *contentFling
	flingSeq int
	inflight int
	ticking  bool
}

type dragState struct {
	onHeader bool
	lastY    int
	tracker  VelocityTracker
}

type contentFling struct {
	id       int
	velocity float64
	played   time.Duration
	pos      float64
	carry    float64
}

// Option configures a Model.
type Option func(*Model)

// WithFrameInterval sets how often the view refreshes while anything moves.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithDecay sets the deceleration of content flings.
func WithDecay(d scroll.Decay) Option {
	return func(m *Model) { m.decay = d }
}

// WithWheelStep sets how many rows one wheel notch moves.
func WithWheelStep(rows float64) Option {
	return func(m *Model) {
		if rows > 0 {
			m.wheelStep = rows
		}
	}
}

// WithClock replaces time.Now for pointer velocity tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// New builds the component. ctx bounds every fling it starts.
func New(ctx context.Context, coord Coordinator, header func(width int) string, content Content, opts ...Option) *Model {
	m := &Model{
		ctx:       ctx,
		coord:     coord,
		conn:      Connection{Coordinator: coord},
		content:   content,
		interval:  scroll.DefaultFrameInterval,
		decay:     scroll.NewDecay(1, scroll.DefaultVelocityThreshold),
		wheelStep: 1,
		now:       time.Now,
	}
	m.layout = Layout{Header: header, Content: content.View, Coordinator: coord}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetSize sets the viewport the component lays out into.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

// Frame is the most recent layout pass.
func (m *Model) Frame() Frame { return m.frame }

// Busy reports whether anything is still moving or queued.
func (m *Model) Busy() bool {
	return m.fling != nil || m.inflight > 0 || m.coord.Animating() || m.coord.Pending()
}

func (m *Model) Init() tea.Cmd { return nil }

// View runs a layout pass.
func (m *Model) View() string {
	m.frame = m.layout.Arrange(m.width, m.height)
	return m.frame.View
}

// Scroll moves the content region by delta rows through the nested chain,
// as a wheel notch or key press would.
func (m *Model) Scroll(delta float64) tea.Cmd {
	m.supersede()
	m.conn.Dispatch(delta, SourceDrag, m.content)
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case frameMsg:
		m.ticking = false
		if m.fling != nil {
			if cmd := m.stepFling(m.interval); cmd != nil {
				return tea.Batch(cmd, m.tick())
			}
		}
		if m.Busy() {
			return m.tick()
		}
	case preFlingDoneMsg:
		m.inflight--
		if msg.id != m.flingSeq || m.ctx.Err() != nil {
			return nil
		}
		if remaining := msg.available - msg.consumed; remaining != 0 {
			m.fling = &contentFling{id: msg.id, velocity: remaining}
		}
		return m.tick()
	case postFlingDoneMsg:
		m.inflight--
		return m.tick()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.scrollAt(msg.Y, m.wheelStep)
	case tea.MouseButtonWheelDown:
		return m.scrollAt(msg.Y, -m.wheelStep)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.supersede()
		m.drag = &dragState{onHeader: m.frame.InHeader(msg.Y), lastY: msg.Y}
		m.drag.tracker.Add(m.now(), float64(msg.Y))
	case tea.MouseActionMotion:
		if m.drag == nil {
			return nil
		}
		delta := msg.Y - m.drag.lastY
		m.drag.lastY = msg.Y
		m.drag.tracker.Add(m.now(), float64(msg.Y))
		if delta == 0 {
			return nil
		}
		if m.drag.onHeader {
			m.coord.Drag(float64(delta))
		} else {
			m.conn.Dispatch(float64(delta), SourceDrag, m.content)
		}
		return m.tick()
	case tea.MouseActionRelease:
		if m.drag == nil {
			return nil
		}
		d := m.drag
		m.drag = nil
		v := d.tracker.VelocityAt(m.now())
		if v == 0 {
			return m.tick()
		}
		if d.onHeader {
			return m.postFling(v)
		}
		return m.preFling(v)
	}
	return nil
}

// scrollAt routes a wheel notch: the header surface drags the coordinator
// directly, anywhere else goes through the nested chain.
func (m *Model) scrollAt(y int, delta float64) tea.Cmd {
	m.supersede()
	if m.frame.InHeader(y) {
		m.coord.Drag(delta)
	} else {
		m.conn.Dispatch(delta, SourceDrag, m.content)
	}
	return m.tick()
}

func (m *Model) preFling(v float64) tea.Cmd {
	m.flingSeq++
	m.inflight++
	id, ctx, conn := m.flingSeq, m.ctx, m.conn
	return tea.Batch(func() tea.Msg {
		return preFlingDoneMsg{id: id, available: v, consumed: conn.PreFling(ctx, v)}
	}, m.tick())
}

func (m *Model) postFling(v float64) tea.Cmd {
	m.flingSeq++
	m.inflight++
	ctx, conn := m.ctx, m.conn
	return tea.Batch(func() tea.Msg {
		conn.PostFling(ctx, 0, v)
		return postFlingDoneMsg{}
	}, m.tick())
}

// stepFling advances the content's own fling by one frame. When the content
// runs out of room the remaining velocity is offered as a post-fling.
func (m *Model) stepFling(dt time.Duration) tea.Cmd {
	f := m.fling
	total := m.decay.Duration(f.velocity)
	f.played += dt
	if f.played > total {
		f.played = total
	}
	pos := m.decay.Value(0, f.velocity, f.played)
	f.carry += pos - f.pos
	f.pos = pos

	if step := math.Trunc(f.carry); step != 0 {
		f.carry -= step
		used := m.conn.Dispatch(step, SourceFling, m.content)
		if used != step {
			m.fling = nil
			if f.id != m.flingSeq {
				return nil
			}
			return m.postFling(m.decay.Velocity(f.velocity, f.played))
		}
	}
	if f.played >= total {
		m.fling = nil
	}
	return nil
}

// supersede drops the content fling and invalidates every fling result
// still in flight, so a new gesture is never followed by an old fling.
func (m *Model) supersede() {
	m.fling = nil
	m.flingSeq++
}

func (m *Model) tick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return frameMsg{} })
}

type frameMsg struct{}

type preFlingDoneMsg struct {
	id        int
	available float64
	consumed  float64
}

type postFlingDoneMsg struct{}
