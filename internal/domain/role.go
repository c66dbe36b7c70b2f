package domain

// Role names as stored in the roles table.
const (
	RoleAdmin      = "Admin"
	RoleInstructor = "Instructor"
	RoleStudent    = "Student"
	RoleDonor      = "Donor"
	RoleParent     = "Parent"
)

// Role is a named group of permissions that can be assigned to users.
type Role struct {
	ID   int64
	Name string
}

// RoleAssignment links a user to a role.
type RoleAssignment struct {
	UID    int64
	RoleID int64
}
