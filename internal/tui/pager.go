package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Pager is horizontally paged content. Each page scrolls vertically on its
// own and remembers its position while other pages are shown.
type Pager struct {
	pages  []pagerPage
	active int
	dots   paginator.Model
	width  int
	height int
}

type pagerPage struct {
	title string
	vp    viewport.Model
}

// NewPager builds one page per title with items generated rows each.
func NewPager(titles []string, items int) *Pager {
	if len(titles) == 0 {
		titles = []string{"Items"}
	}
	p := &Pager{dots: paginator.New()}
	p.dots.Type = paginator.Dots
	p.dots.ActiveDot = activeDotStyle.Render("•")
	p.dots.InactiveDot = mutedStyle.Render("•")
	p.dots.SetTotalPages(len(titles))

	for _, title := range titles {
		rows := make([]string, items)
		for i := range rows {
			rows[i] = fmt.Sprintf("%s %03d", title, i+1)
		}
		vp := viewport.New(0, 0)
		vp.SetContent(strings.Join(rows, "\n"))
		p.pages = append(p.pages, pagerPage{title: title, vp: vp})
	}
	return p
}

// Page is the index of the visible page.
func (p *Pager) Page() int { return p.active }

// Offset is how many rows the visible page has scrolled past its top.
func (p *Pager) Offset() int { return p.pages[p.active].vp.YOffset }

func (p *Pager) Next() { p.SetPage(p.active + 1) }

func (p *Pager) Prev() { p.SetPage(p.active - 1) }

// SetPage shows page i, wrapping around at either end.
func (p *Pager) SetPage(i int) {
	n := len(p.pages)
	p.active = ((i % n) + n) % n
	p.dots.Page = p.active
}

// ScrollBy moves the visible page by whole rows and reports how much of
// delta it used. Positive delta moves toward the top of the page.
func (p *Pager) ScrollBy(delta float64) float64 {
	rows := int(delta)
	if rows == 0 {
		return 0
	}
	vp := &p.pages[p.active].vp
	before := vp.YOffset
	vp.SetYOffset(before - rows)
	return float64(before - vp.YOffset)
}

// View renders the tab bar, the visible page and the page dots.
func (p *Pager) View(width, height int) string {
	p.resize(width, height)
	if height <= 0 {
		return ""
	}
	parts := []string{p.tabs()}
	if h := p.bodyHeight(); h > 0 {
		parts = append(parts, p.pages[p.active].vp.View())
	}
	if height > 1 {
		parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Center, p.dots.View()))
	}
	return strings.Join(parts, "\n")
}

func (p *Pager) bodyHeight() int {
	return max(0, p.height-2)
}

func (p *Pager) resize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	for i := range p.pages {
		vp := &p.pages[i].vp
		vp.Width = width
		vp.Height = p.bodyHeight()
		// re-clamp against the new height
		vp.SetYOffset(vp.YOffset)
	}
}

func (p *Pager) tabs() string {
	tabs := make([]string, len(p.pages))
	for i, pg := range p.pages {
		if i == p.active {
			tabs[i] = activeTabStyle.Render(pg.title)
		} else {
			tabs[i] = tabStyle.Render(pg.title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
