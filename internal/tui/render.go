package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// cell pads or truncates a string to exactly w display cells. ANSI
// aware so styled content does not break column alignment.
func cell(s string, w int) string {
	if w <= 0 {
		return ""
	}
	sw := xansi.StringWidth(s)
	if sw > w {
		if w > 1 {
			return xansi.Cut(s, 0, w-1) + "…"
		}
		return xansi.Cut(s, 0, w)
	}
	return s + strings.Repeat(" ", w-sw)
}

// tableRow joins fixed-width cells with two-space gutters.
func tableRow(widths []int, cols ...string) string {
	parts := make([]string, 0, len(cols))
	for i, c := range cols {
		w := 10
		if i < len(widths) {
			w = widths[i]
		}
		parts = append(parts, cell(c, w))
	}
	return strings.Join(parts, "  ")
}

// pagerFooter renders "‹ стр. 2/5 ›" with the arrows muted at the
// boundaries (the disabled-button affordance).
func pagerFooter(page, pages int) string {
	prev, next := "‹", "›"
	if page <= 1 {
		prev = styleMuted().Render(prev)
	}
	if page >= pages {
		next = styleMuted().Render(next)
	}
	return fmt.Sprintf("%s стр. %d/%d %s", prev, page, pages, next)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}

// messageLine renders the per-view inline message slot: errors red,
// everything else green.
func messageLine(msg string, isErr bool) string {
	if msg == "" {
		return ""
	}
	if isErr {
		return styleError().Render(msg)
	}
	return styleOK().Render(msg)
}

func centered(width int, s string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(s)
}
