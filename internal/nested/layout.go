package nested

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout stacks a header above content and moves both by the coordinator's
// offset. Content always starts right below the header, so collapsing the
// header pulls the content up over the space it vacates.
type Layout struct {
	// Header renders at the given width with no height limit.
	Header func(width int) string
	// Content renders at the full available size.
	Content     func(width, height int) string
	Coordinator Coordinator
}

// Frame is the result of one layout pass.
type Frame struct {
	Width, Height int
	HeaderY       int
	HeaderHeight  int
	ContentY      int
	View          string
}

// InHeader reports whether row y of the viewport shows the header.
func (f Frame) InHeader(y int) bool {
	return y >= 0 && y < f.Height && y >= f.HeaderY && y < f.HeaderY+f.HeaderHeight
}

// Arrange measures and places header and content. The measured header
// height becomes the coordinator's collapse range on every pass.
func (l Layout) Arrange(width, height int) Frame {
	f := Frame{Width: width, Height: height}
	if width <= 0 || height <= 0 {
		return f
	}

	var header string
	if l.Header != nil {
		header = l.Header(width)
	}
	f.HeaderHeight = blockHeight(header)
	f.HeaderY = offsetRow(l.Coordinator.Offset())
	l.Coordinator.UpdateBounds(float64(f.HeaderHeight))

	var content string
	if l.Content != nil {
		content = l.Content(width, height)
	}
	f.ContentY = offsetRow(l.Coordinator.Offset()) + f.HeaderHeight

	canvas := make([]string, height)
	place(canvas, header, f.HeaderY, width)
	place(canvas, content, f.ContentY, width)
	for i, line := range canvas {
		if line == "" {
			canvas[i] = strings.Repeat(" ", width)
		}
	}
	f.View = strings.Join(canvas, "\n")
	return f
}

func blockHeight(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}

func offsetRow(offset float64) int {
	return int(math.Round(offset))
}

// place copies block into canvas starting at row top, dropping rows that
// fall outside the viewport.
func place(canvas []string, block string, top, width int) {
	if block == "" {
		return
	}
	for i, line := range strings.Split(block, "\n") {
		y := top + i
		if y < 0 {
			continue
		}
		if y >= len(canvas) {
			return
		}
		canvas[y] = fitLine(line, width)
	}
}

func fitLine(line string, width int) string {
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return line
}
