package state

import (
	"time"

	"taskflow-cli/internal/model"
)

type CalendarMode string

const (
	CalendarDayMode   CalendarMode = "day"
	CalendarWeekMode  CalendarMode = "week"
	CalendarMonthMode CalendarMode = "month"
)

// CalendarDay is one cell: a date plus the tasks due on it. Date is
// the bucket key; Day is the same date for calendar math in views.
type CalendarDay struct {
	Date  string // YYYY-MM-DD
	Day   time.Time
	Tasks []model.Task
}

const calendarDateLayout = "2006-01-02"

// weekStart returns the Monday of t's week.
func weekStart(t time.Time) time.Time {
	d := t
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CalendarDays buckets tasks with a due date into the cells of the
// given granularity around the cursor. Tasks without a due date never
// appear.
func CalendarDays(tasks []model.Task, mode CalendarMode, cursor time.Time) []CalendarDay {
	var from, to time.Time
	switch mode {
	case CalendarWeekMode:
		from = weekStart(cursor)
		to = from.AddDate(0, 0, 6)
	case CalendarMonthMode:
		from = time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location())
		to = from.AddDate(0, 0, daysInMonth(cursor.Year(), cursor.Month())-1)
	default:
		from, to = cursor, cursor
	}

	byDate := map[string][]model.Task{}
	for _, t := range tasks {
		if t.DueDate == nil || *t.DueDate == "" {
			continue
		}
		byDate[*t.DueDate] = append(byDate[*t.DueDate], t)
	}

	var out []CalendarDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(calendarDateLayout)
		out = append(out, CalendarDay{Date: key, Day: d, Tasks: byDate[key]})
	}
	return out
}

// StepCursor moves the cursor by delta units of the current
// granularity (delta is usually -1 or +1).
func StepCursor(cursor time.Time, mode CalendarMode, delta int) time.Time {
	switch mode {
	case CalendarWeekMode:
		return cursor.AddDate(0, 0, 7*delta)
	case CalendarMonthMode:
		// Step from the first of the month so Jan 31 +1 lands in
		// February, not March.
		first := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location())
		return first.AddDate(0, delta, 0)
	default:
		return cursor.AddDate(0, 0, delta)
	}
}
