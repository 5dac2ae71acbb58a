package state

import "taskflow-cli/internal/model"

// DashboardPreview caps the per-department preview lists.
const DashboardPreview = 4

// DepartmentGroup is one dashboard block: a department with truncated
// previews of its projects and tasks plus the full counts.
type DepartmentGroup struct {
	Department model.Department
	Projects   []model.Project
	Tasks      []model.Task
	// Total counts before truncation, for the "open full list" hint.
	ProjectCount int
	TaskCount    int
}

// DashboardGroups groups cached projects and tasks by department, in
// the departments list order. Departments with nothing to show are
// skipped.
func (a *App) DashboardGroups() []DepartmentGroup {
	projectsBy := map[int64][]model.Project{}
	for _, p := range a.Projects {
		projectsBy[p.DepartmentID] = append(projectsBy[p.DepartmentID], p)
	}
	tasksBy := map[int64][]model.Task{}
	for _, t := range a.Tasks {
		tasksBy[t.DepartmentID] = append(tasksBy[t.DepartmentID], t)
	}

	var out []DepartmentGroup
	for _, d := range a.Departments {
		ps, ts := projectsBy[d.ID], tasksBy[d.ID]
		if len(ps) == 0 && len(ts) == 0 {
			continue
		}
		g := DepartmentGroup{
			Department:   d,
			Projects:     ps,
			Tasks:        ts,
			ProjectCount: len(ps),
			TaskCount:    len(ts),
		}
		if len(g.Projects) > DashboardPreview {
			g.Projects = g.Projects[:DashboardPreview]
		}
		if len(g.Tasks) > DashboardPreview {
			g.Tasks = g.Tasks[:DashboardPreview]
		}
		out = append(out, g)
	}
	return out
}
