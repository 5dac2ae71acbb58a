package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"taskflow-cli/internal/model"
	"taskflow-cli/internal/state"
)

// Form building blocks. Every editor is a vertical list of labeled
// fields; tab/shift+tab (and up/down outside text areas) move focus,
// left/right cycle the options of select fields, ctrl+s submits and
// esc cancels.

func newInput(placeholder string, width, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.Width = width
	in.CharLimit = limit
	return in
}

func newPassword(placeholder string, width int) textinput.Model {
	in := newInput(placeholder, width, 128)
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return in
}

func newArea(placeholder string, width, height int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.ShowLineNumbers = false
	return ta
}

const fieldLabelWidth = 16

// renderField draws one "label: value" line; the focused field's label
// is highlighted so the cursor position is visible even on selects.
func renderField(label, body string, focused bool) string {
	l := cell(label, fieldLabelWidth)
	if focused {
		l = styleNavActive().Render(l)
	} else {
		l = styleMuted().Render(l)
	}
	return l + " " + body
}

// cycleOption moves idx by delta within [0, n), clamping at the ends
// (selects do not wrap, matching the department filter).
func cycleOption(idx, delta, n int) int {
	idx += delta
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func indexOfString(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return 0
}

// departmentOption renders the currently selected department of a
// select bound to the cached department list.
func departmentLabel(deps []model.Department, id int64) string {
	for _, d := range deps {
		if d.ID == id {
			return d.Name
		}
	}
	return "—"
}

// cycleDepartment moves the selection across the cached departments;
// delta from an unset selection lands on the first entry.
func cycleDepartment(deps []model.Department, id int64, delta int) int64 {
	if len(deps) == 0 {
		return id
	}
	cur := -1
	for i, d := range deps {
		if d.ID == id {
			cur = i
			break
		}
	}
	if cur < 0 {
		return deps[0].ID
	}
	return deps[cycleOption(cur, delta, len(deps))].ID
}

// pickerRowLabel renders one picker row: the selected user's name or an
// empty slot marker.
func pickerRowLabel(p *state.Picker, row int) string {
	id := p.Rows()[row]
	if id == 0 {
		return styleMuted().Render("— не выбран —")
	}
	for _, u := range p.Eligible() {
		if u.ID == id {
			return u.FullName
		}
	}
	// Stale id kept by Load before eligibility arrived.
	return styleMuted().Render("?")
}

// cyclePickerRow moves row's selection through [empty, eligible...].
func cyclePickerRow(p *state.Picker, row, delta int) {
	eligible := p.Eligible()
	if len(eligible) == 0 {
		return
	}
	id := p.Rows()[row]
	cur := 0 // position 0 is the empty slot
	for i, u := range eligible {
		if u.ID == id {
			cur = i + 1
			break
		}
	}
	next := cycleOption(cur, delta, len(eligible)+1)
	if next == 0 {
		p.Select(row, 0)
		return
	}
	p.Select(row, eligible[next-1].ID)
}

// renderPicker draws the picker block under its heading; focusRow is
// the row the form focus sits on, or -1.
func renderPicker(title string, p *state.Picker, focusRow int) []string {
	lines := []string{styleMuted().Render(title)}
	for i := range p.Rows() {
		marker := "  "
		label := pickerRowLabel(p, i)
		if i == focusRow {
			marker = styleNavActive().Render("› ")
		}
		lines = append(lines, "    "+marker+label)
	}
	return lines
}
