package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow-cli/internal/state"
)

var calendarModes = []state.CalendarMode{
	state.CalendarDayMode,
	state.CalendarWeekMode,
	state.CalendarMonthMode,
}

func calendarModeLabel(m state.CalendarMode) string {
	switch m {
	case state.CalendarDayMode:
		return "День"
	case state.CalendarWeekMode:
		return "Неделя"
	case state.CalendarMonthMode:
		return "Месяц"
	}
	return string(m)
}

func (m appModel) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "v":
		for i, mode := range calendarModes {
			if mode == m.calMode {
				m.calMode = calendarModes[(i+1)%len(calendarModes)]
				break
			}
		}
		m.persistUIState()
	case "left", "h":
		m.calCursor = state.StepCursor(m.calCursor, m.calMode, -1)
		m.persistUIState()
	case "right", "l":
		m.calCursor = state.StepCursor(m.calCursor, m.calMode, 1)
		m.persistUIState()
	case "t":
		m.calCursor = time.Now()
		m.persistUIState()
	case "f":
		m.cycleFilter()
	}
	return m, nil
}

var weekdayLabels = [7]string{"пн", "вт", "ср", "чт", "пт", "сб", "вс"}

func (m appModel) viewCalendar() string {
	days := state.CalendarDays(m.app.Tasks, m.calMode, m.calCursor)

	header := fmt.Sprintf("Календарь — %s · %s", calendarModeLabel(m.calMode), m.calCursor.Format("2006-01-02"))
	lines := []string{
		styleHeading().Render(header) + "  " + styleMuted().Render(m.filterLabel()),
		"",
	}

	today := time.Now().Format("2006-01-02")
	for _, day := range days {
		// Monday-based weekday index.
		wd := (int(day.Day.Weekday()) + 6) % 7
		label := day.Date + " " + weekdayLabels[wd]
		switch {
		case day.Date == today:
			label = styleOK().Render(label)
		case wd >= 5:
			label = styleMuted().Render(label)
		}
		if len(day.Tasks) == 0 {
			if m.calMode != state.CalendarMonthMode {
				lines = append(lines, label)
			}
			continue
		}
		lines = append(lines, label)
		for _, t := range day.Tasks {
			lines = append(lines, "  "+cell(t.Key, 10)+" "+t.Title+"  "+styleMuted().Render(t.Status))
		}
	}
	if m.calMode == state.CalendarMonthMode {
		// Month mode lists only days with due tasks.
		hasAny := false
		for _, day := range days {
			if len(day.Tasks) > 0 {
				hasAny = true
				break
			}
		}
		if !hasAny {
			lines = append(lines, styleMuted().Render("В этом месяце нет задач со сроком"))
		}
	}

	lines = append(lines, "",
		styleMuted().Render("←/→ — период · tab — режим · t — сегодня"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
