package session

import "github.com/trezcool/masomo/core/user"

// Directory resolves the identity a login as role signs into.
type Directory interface {
	ForRole(role user.Role) (user.User, bool)
}

// CannedDirectory holds one demo identity per role.
type CannedDirectory map[user.Role]user.User

var _ Directory = CannedDirectory{}

func NewCannedDirectory() CannedDirectory {
	return CannedDirectory{
		user.RoleStudent: {ID: "STU001", Name: "John Doe", Email: "student@example.com", Role: user.RoleStudent},
		user.RoleTeacher: {ID: "TCH001", Name: "Dr. Sarah Wilson", Email: "teacher@example.com", Role: user.RoleTeacher},
		user.RoleAdmin:   {ID: "ADM001", Name: "Admin User", Email: "admin@example.com", Role: user.RoleAdmin},
	}
}

func (d CannedDirectory) ForRole(role user.Role) (user.User, bool) {
	usr, ok := d[role]
	return usr, ok
}
