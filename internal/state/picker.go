package state

import "taskflow-cli/internal/model"

// Picker row limits: every curator/assignee set holds 1..5 members.
const (
	PickerMinRows = 1
	PickerMaxRows = 5
)

// Picker is the bounded multi-select for curators/assignees. Each row
// holds one selected user id (0 = empty) bound to the eligible list;
// eligibility follows the draft's department.
type Picker struct {
	rows     []int64
	eligible []model.User
}

func NewPicker() *Picker {
	return &Picker{rows: make([]int64, PickerMinRows)}
}

func (p *Picker) Rows() []int64 { return p.rows }

func (p *Picker) RowCount() int { return len(p.rows) }

func (p *Picker) Eligible() []model.User { return p.eligible }

// SetEligible installs the user list the rows may select from.
// Selections outside the new eligible set are dropped: a department
// switch must not leave stale ids behind.
func (p *Picker) SetEligible(users []model.User) {
	p.eligible = users
	for i, id := range p.rows {
		if id != 0 && !p.isEligible(id) {
			p.rows[i] = 0
		}
	}
}

func (p *Picker) isEligible(id int64) bool {
	for _, u := range p.eligible {
		if u.ID == id {
			return true
		}
	}
	return false
}

// AddRow appends an empty row; reports whether the cap allowed it.
func (p *Picker) AddRow() bool {
	if len(p.rows) >= PickerMaxRows {
		return false
	}
	p.rows = append(p.rows, 0)
	return true
}

// RemoveRow deletes row i. Removing the final row collapses the picker
// back to a single empty row instead.
func (p *Picker) RemoveRow(i int) {
	if i < 0 || i >= len(p.rows) {
		return
	}
	if len(p.rows) <= PickerMinRows {
		p.rows[0] = 0
		return
	}
	p.rows = append(p.rows[:i], p.rows[i+1:]...)
}

// Select sets row i to the given user id; ineligible ids are refused.
func (p *Picker) Select(i int, id int64) bool {
	if i < 0 || i >= len(p.rows) {
		return false
	}
	if id != 0 && !p.isEligible(id) {
		return false
	}
	p.rows[i] = id
	return true
}

// Load seeds rows from an entity being edited. Stale ids are kept as-is
// here; SetEligible is what enforces eligibility.
func (p *Picker) Load(ids []int64) {
	if len(ids) == 0 {
		p.rows = make([]int64, PickerMinRows)
		return
	}
	if len(ids) > PickerMaxRows {
		ids = ids[:PickerMaxRows]
	}
	p.rows = append([]int64(nil), ids...)
}

// Reset collapses to a single empty row.
func (p *Picker) Reset() {
	p.rows = make([]int64, PickerMinRows)
}

// IDs returns the distinct selected ids in row order. Selecting the
// same user twice yields one id.
func (p *Picker) IDs() []int64 {
	seen := map[int64]bool{}
	out := make([]int64, 0, len(p.rows))
	for _, id := range p.rows {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func userIDs(users []model.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
