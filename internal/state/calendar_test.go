package state

import (
	"testing"
	"time"

	"taskflow-cli/internal/model"
)

func dueTask(id int64, due string) model.Task {
	return model.Task{ID: id, Title: "t", DueDate: &due}
}

func TestCalendarWeekStartsMonday(t *testing.T) {
	// 2024-05-15 is a Wednesday; its week is Mon 13 .. Sun 19.
	cursor := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	days := CalendarDays(nil, CalendarWeekMode, cursor)
	if len(days) != 7 {
		t.Fatalf("week cells = %d, want 7", len(days))
	}
	if days[0].Date != "2024-05-13" {
		t.Fatalf("week starts %s, want 2024-05-13 (Monday)", days[0].Date)
	}
	if days[6].Date != "2024-05-19" {
		t.Fatalf("week ends %s, want 2024-05-19 (Sunday)", days[6].Date)
	}
	for _, d := range days {
		if got := d.Day.Format("2006-01-02"); got != d.Date {
			t.Fatalf("cell Day %s does not match its key %s", got, d.Date)
		}
	}
}

func TestCalendarMonthEnumeratesAllDays(t *testing.T) {
	cursor := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC) // leap February
	days := CalendarDays(nil, CalendarMonthMode, cursor)
	if len(days) != 29 {
		t.Fatalf("feb 2024 cells = %d, want 29", len(days))
	}
	if days[0].Date != "2024-02-01" || days[28].Date != "2024-02-29" {
		t.Fatalf("month range %s..%s", days[0].Date, days[28].Date)
	}
}

func TestCalendarBucketsTasksByDueDate(t *testing.T) {
	cursor := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		dueTask(1, "2024-05-13"),
		dueTask(2, "2024-05-13"),
		dueTask(3, "2024-05-19"),
		dueTask(4, "2024-06-01"),  // outside the week
		{ID: 5, Title: "undated"}, // no due date
	}
	days := CalendarDays(tasks, CalendarWeekMode, cursor)
	if got := len(days[0].Tasks); got != 2 {
		t.Fatalf("monday tasks = %d, want 2", got)
	}
	if got := len(days[6].Tasks); got != 1 {
		t.Fatalf("sunday tasks = %d, want 1", got)
	}
	for _, d := range days[1:6] {
		if len(d.Tasks) != 0 {
			t.Fatalf("unexpected tasks on %s", d.Date)
		}
	}
}

func TestStepCursorByGranularity(t *testing.T) {
	cursor := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	if got := StepCursor(cursor, CalendarDayMode, 1); got.Format("2006-01-02") != "2024-02-01" {
		t.Fatalf("day step = %s", got.Format("2006-01-02"))
	}
	if got := StepCursor(cursor, CalendarWeekMode, -1); got.Format("2006-01-02") != "2024-01-24" {
		t.Fatalf("week step = %s", got.Format("2006-01-02"))
	}
	if got := StepCursor(cursor, CalendarMonthMode, 1); got.Format("2006-01-02") != "2024-02-01" {
		t.Fatalf("month step = %s, want 2024-02-01", got.Format("2006-01-02"))
	}
}
