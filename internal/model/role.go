package model

import "strings"

// Role is the closed set of backend roles. The wire format is the
// human-readable label, so comparisons must stay case-insensitive
// (the backend does the same).
type Role string

const (
	RoleOwner          Role = "Owner"
	RoleAdmin          Role = "Admin"
	RoleDeputyAdmin    Role = "Deputy Admin"
	RoleProjectManager Role = "Project Manager"
	RoleMember         Role = "Member"
	RoleGuest          Role = "Guest"
)

func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// Label returns the Russian display label used across the UI.
func (r Role) Label() string {
	switch {
	case r.Is(RoleOwner):
		return "Владелец"
	case r.Is(RoleAdmin):
		return "Администратор"
	case r.Is(RoleDeputyAdmin):
		return "Зам. администратора"
	case r.Is(RoleProjectManager):
		return "Руководитель проектов"
	case r.Is(RoleMember):
		return "Сотрудник"
	case r.Is(RoleGuest):
		return "Гость"
	}
	return string(r)
}

// Capabilities is computed once at session load; call sites check the
// flags instead of re-deriving role comparisons.
type Capabilities struct {
	// CanManageUsers allows creating/editing/deleting users.
	CanManageUsers bool
	// CanManageWorkItems allows creating/editing/deleting projects and tasks.
	CanManageWorkItems bool
	// CanDeleteReports allows deleting reports and chat messages authored by others.
	CanDeleteReports bool
	// Scoped restricts visible projects/tasks to the actor's own department.
	Scoped bool
}

func (r Role) Capabilities() Capabilities {
	switch {
	case r.Is(RoleOwner), r.Is(RoleAdmin), r.Is(RoleDeputyAdmin):
		return Capabilities{
			CanManageUsers:     true,
			CanManageWorkItems: true,
			CanDeleteReports:   true,
		}
	case r.Is(RoleProjectManager):
		return Capabilities{
			CanManageUsers:     true,
			CanManageWorkItems: true,
			CanDeleteReports:   true,
			Scoped:             true,
		}
	default: // Member, Guest and anything unknown.
		return Capabilities{Scoped: true}
	}
}

// AssignableRoles lists the roles an editor with the given role may
// assign to other users. Project Managers only manage rank-and-file
// users inside their own department.
func AssignableRoles(editor Role) []Role {
	if editor.Is(RoleProjectManager) {
		return []Role{RoleMember, RoleGuest}
	}
	return []Role{RoleOwner, RoleAdmin, RoleDeputyAdmin, RoleProjectManager, RoleMember, RoleGuest}
}
