package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsticker/internal/source"
)

func renderStatusBar(snap source.Snapshot, width int, paused bool, notice string) string {
	left := fmt.Sprintf(" %d headlines", len(snap.Headlines))
	if snap.LastKind != source.Empty {
		left += " · " + snap.LastKind.String()
	}
	if !snap.UpdatedAt.IsZero() {
		left += " · updated " + relativeTime(snap.UpdatedAt)
	}
	if snap.Loading {
		left += " (refreshing...)"
	}
	if paused {
		left += " · paused"
	}
	if notice != "" {
		left += "  " + noticeStyle.Render(notice)
	}

	right := " s service  r refresh  space pause  o open  ? help  q quit "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right
	return statusBarStyle.Width(width).Render(bar)
}
