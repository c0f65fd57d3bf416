package service

import "github.com/noah-isme/remed-api/internal/models"

// View identifies a navigable section of the dashboard.
type View string

const (
	ViewDashboard      View = "dashboard"
	ViewGrades         View = "grades"
	ViewStudentFile    View = "student-file"
	ViewAnnotations    View = "annotations"
	ViewSurveys        View = "surveys"
	ViewCalendar       View = "calendar"
	ViewNews           View = "news"
	ViewDocuments      View = "documents"
	ViewSiteManagement View = "site-management"
)

// AllViews lists every navigable view, in display order.
var AllViews = []View{
	ViewDashboard,
	ViewGrades,
	ViewStudentFile,
	ViewAnnotations,
	ViewSurveys,
	ViewCalendar,
	ViewNews,
	ViewDocuments,
	ViewSiteManagement,
}

// PermissionSet is the capability matrix derived from a role. Note that a
// student's CanEdit does not grant edit rights over arbitrary entities; it is
// consumed contextually (accepting one's own report, completing one's own
// survey) and handlers additionally scope those actions to owned records.
type PermissionSet struct {
	CanCreate    bool
	CanEdit      bool
	CanDelete    bool
	VisibleViews []View
}

// CanView reports whether the view is part of the derived visible set.
func (p PermissionSet) CanView(view View) bool {
	for _, visible := range p.VisibleViews {
		if visible == view {
			return true
		}
	}
	return false
}

// ViewNames renders the visible views as plain strings for serialization.
func (p PermissionSet) ViewNames() []string {
	names := make([]string, 0, len(p.VisibleViews))
	for _, view := range p.VisibleViews {
		names = append(names, string(view))
	}
	return names
}

// DerivePermissions maps a role to its capability set. The function is total:
// every defined role yields a fixed matrix and anything else yields the
// all-false, no-views default.
func DerivePermissions(role models.Role) PermissionSet {
	switch role {
	case models.RoleAdministrator:
		return PermissionSet{
			CanCreate:    true,
			CanEdit:      true,
			CanDelete:    true,
			VisibleViews: append([]View(nil), AllViews...),
		}
	case models.RoleTeacher:
		views := make([]View, 0, len(AllViews)-1)
		for _, view := range AllViews {
			if view == ViewSiteManagement {
				continue
			}
			views = append(views, view)
		}
		return PermissionSet{
			CanCreate:    true,
			CanEdit:      true,
			CanDelete:    false,
			VisibleViews: views,
		}
	case models.RoleStudent:
		return PermissionSet{
			CanCreate: false,
			CanEdit:   true,
			CanDelete: false,
			VisibleViews: []View{
				ViewDashboard,
				ViewGrades,
				ViewStudentFile,
				ViewCalendar,
				ViewNews,
				ViewDocuments,
			},
		}
	default:
		return PermissionSet{VisibleViews: []View{}}
	}
}
