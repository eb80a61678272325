package feedback

import "github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"

// Query holds the optional equality filters a caller may add to a listing.
type Query struct {
	LecturerName string
	Course       string
	Department   string
}

// Filter is a conjunction of equality conditions on feedback fields.
// Empty fields match everything.
type Filter struct {
	LecturerID   string
	UserID       string
	LecturerName string
	Course       string
	Department   string
}

// Scope returns the restriction a caller's role places on feedback listings.
// Lecturers see feedback about themselves, students see what they wrote and
// administrators see everything. Any other role is scoped like a student.
func Scope(caller domain.Identity) Filter {
	switch caller.Role {
	case domain.RoleAdmin:
		return Filter{}
	case domain.RoleLecturer:
		return Filter{LecturerID: caller.UserID}
	default:
		return Filter{UserID: caller.UserID}
	}
}

// With intersects the filter with caller-supplied equality filters. The
// role-derived fields are never touched.
func (f Filter) With(q Query) Filter {
	f.LecturerName = q.LecturerName
	f.Course = q.Course
	f.Department = q.Department
	return f
}
