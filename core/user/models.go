package user

import "sort"

// Role gates which views and queries a User can reach.
type Role string

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

	Roles = []RoleInfo{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type RoleInfo struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

// ParseRole returns the Role named by s, if any.
func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Home is the landing path of the role's view set.
func (r Role) Home() string {
	return "/" + string(r)
}

// User is the authenticated identity held by a session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// HasAnyRole reports whether the user's role is one of roles.
func (u User) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	sort.Strings(names)
	if i := sort.SearchStrings(names, string(u.Role)); i < len(names) {
		return names[i] == string(u.Role)
	}
	return false
}
