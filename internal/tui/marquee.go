package tui

import (
	"strings"
	"time"

	"github.com/matheuskafuri/newsticker/internal/news"
	"github.com/mattn/go-runewidth"
)

const separator = "  •  "

// marquee is the scrolling headline strip. Each frame advances one rune;
// the visible window is measured in terminal cells.
type marquee struct {
	text   []rune
	starts []int // rune offset of each headline segment
	items  []news.Headline
	offset int
}

func newMarquee(items []news.Headline, now time.Time) marquee {
	m := marquee{items: items}
	if len(items) == 0 {
		return m
	}
	var b strings.Builder
	pos := 0
	for _, h := range items {
		m.starts = append(m.starts, pos)
		seg := segment(h, now) + separator
		b.WriteString(seg)
		pos += len([]rune(seg))
	}
	m.text = []rune(b.String())
	return m
}

func segment(h news.Headline, now time.Time) string {
	s := sanitize(h.Title)
	if src := sanitize(h.Source); src != "" {
		s = src + " " + s
	}
	if h.TS > 0 {
		s += " · " + relativeTimeFrom(time.UnixMilli(h.TS), now)
	}
	return s
}

func (m *marquee) empty() bool { return len(m.text) == 0 }

func (m *marquee) step() {
	if m.empty() {
		return
	}
	m.offset = (m.offset + 1) % len(m.text)
}

// view returns exactly width terminal cells of the strip starting at the
// current offset, wrapping around to the beginning. A wide rune that would
// straddle the right edge is replaced by padding.
func (m *marquee) view(width int) string {
	if m.empty() || width <= 0 {
		return ""
	}
	var b strings.Builder
	cells := 0
	for i := m.offset; cells < width; i++ {
		r := m.text[i%len(m.text)]
		w := runewidth.RuneWidth(r)
		if cells+w > width {
			break
		}
		b.WriteRune(r)
		cells += w
	}
	b.WriteString(strings.Repeat(" ", width-cells))
	return b.String()
}

// lead returns the index of the headline currently at the left edge.
func (m *marquee) lead() int {
	if m.empty() {
		return -1
	}
	idx := 0
	for i, start := range m.starts {
		if start <= m.offset {
			idx = i
		}
	}
	return idx
}
