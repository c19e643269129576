package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/nestscroll/internal/config"
	"github.com/jask/nestscroll/internal/nested"
	"github.com/jask/nestscroll/internal/scroll"
)

// StateStore persists coordinator snapshots.
type StateStore interface {
	Save(ctx context.Context, name string, st scroll.State) error
}

// App hosts a collapsible header above paged content.
type App struct {
	ctx    context.Context
	cfg    config.Config
	coord  *scroll.Coordinator
	states StateStore
	body   *nested.Model
	pager  *Pager
	keys   keyMap
	help   help.Model

	width     int
	height    int
	status    string
	statusErr bool
}

func New(ctx context.Context, cfg config.Config, coord *scroll.Coordinator, states StateStore) *App {
	a := &App{
		ctx:    ctx,
		cfg:    cfg,
		coord:  coord,
		states: states,
		pager:  NewPager(cfg.UI.Pages, cfg.UI.ItemsPerPage),
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	var opts []nested.Option
	if cfg.Scroll.FrameInterval > 0 {
		opts = append(opts, nested.WithFrameInterval(cfg.Scroll.FrameInterval))
	}
	if cfg.Scroll.WheelStep > 0 {
		opts = append(opts, nested.WithWheelStep(cfg.Scroll.WheelStep))
	}
	opts = append(opts, nested.WithDecay(scroll.NewDecay(cfg.Scroll.FrictionMultiplier, cfg.Scroll.VelocityThreshold)))
	a.body = nested.New(ctx, coord, a.renderHeader, a.pager, opts...)
	return a
}

func (a *App) Init() tea.Cmd { return a.body.Init() }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.resize()
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	case statusMsg:
		a.status, a.statusErr = string(msg), false
		return a, nil
	case errMsg:
		a.status, a.statusErr = msg.err.Error(), true
		return a, nil
	}
	return a, a.body.Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Sequence(a.saveCmd(), tea.Quit)
	case key.Matches(msg, a.keys.Save):
		return a.saveCmd()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
	case key.Matches(msg, a.keys.Up):
		return a.body.Scroll(1)
	case key.Matches(msg, a.keys.Down):
		return a.body.Scroll(-1)
	case key.Matches(msg, a.keys.PageUp):
		return a.body.Scroll(float64(a.halfPage()))
	case key.Matches(msg, a.keys.PageDown):
		return a.body.Scroll(-float64(a.halfPage()))
	case key.Matches(msg, a.keys.PrevPage):
		a.pager.Prev()
	case key.Matches(msg, a.keys.NextPage):
		a.pager.Next()
	}
	return nil
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelLeft:
		a.pager.Prev()
		return nil
	case tea.MouseButtonWheelRight:
		a.pager.Next()
		return nil
	}
	// Presses and wheel notches over the footer are not ours; motion and
	// release are forwarded so a drag that leaves the body still ends.
	if msg.Y >= a.bodyHeight() && (msg.Action == tea.MouseActionPress || tea.MouseEvent(msg).IsWheel()) {
		return nil
	}
	return a.body.Update(msg)
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	parts := make([]string, 0, 3)
	if a.bodyHeight() > 0 {
		parts = append(parts, a.body.View())
	}
	parts = append(parts, a.statusLine(), a.help.View(a.keys))
	return strings.Join(parts, "\n")
}

func (a *App) resize() {
	a.body.SetSize(a.width, a.bodyHeight())
}

func (a *App) bodyHeight() int {
	footer := 1 + lipgloss.Height(a.help.View(a.keys))
	return max(0, a.height-footer)
}

func (a *App) halfPage() int {
	return max(1, a.bodyHeight()/2)
}

func (a *App) renderHeader(width int) string {
	lines := a.cfg.UI.HeaderLines
	if len(lines) == 0 {
		return ""
	}
	text := titleStyle.Render(lines[0])
	if len(lines) > 1 {
		text += "\n" + strings.Join(lines[1:], "\n")
	}
	inner := width - headerStyle.GetHorizontalBorderSize()
	if inner < headerStyle.GetHorizontalPadding()+1 {
		return text
	}
	return headerStyle.Width(inner).Render(text)
}

func (a *App) statusLine() string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	line := fmt.Sprintf(" %s  header %.0f/%.0f  page %d/%d",
		msg, math.Abs(a.coord.Offset()), a.coord.CollapseRange(), a.pager.Page()+1, len(a.pager.pages))
	line = ansi.Truncate(line, a.width, "")
	if w := ansi.StringWidth(line); w < a.width {
		line += strings.Repeat(" ", a.width-w)
	}
	if a.statusErr {
		return statusErrStyle.Render(line)
	}
	return statusStyle.Render(line)
}

// Cmds

func (a *App) saveCmd() tea.Cmd {
	if a.states == nil {
		return nil
	}
	ctx, coord, states, name := a.ctx, a.coord, a.states, a.cfg.State.Name
	return func() tea.Msg {
		if err := coord.Sync(ctx); err != nil {
			return errMsg{fmt.Errorf("sync header: %w", err)}
		}
		if err := states.Save(ctx, name, coord.Snapshot()); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("saved %q", name))
	}
}

// messages
type statusMsg string

type errMsg struct{ err error }
