package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/domain"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// Permissions checked by route guards.
const (
	PermModifyRole          = "modify_role"
	PermModifyCourse        = "modify_course"
	PermModifyUser          = "modify_user"
	PermViewRoles           = "view_roles"
	PermAssignInstructor    = "assign_instructor"
	PermViewStudentProgress = "view_student_progress"
	PermEnrollCourse        = "enroll_course"
	PermMakeDonation        = "make_donation"
	PermViewDonations       = "view_donations"
)

// PermissionTable maps role names to the permissions they grant.
// It is built once at startup and never mutated afterwards.
type PermissionTable struct {
	grants map[string]map[string]struct{}
}

// NewPermissionTable copies the given mapping into an immutable table.
func NewPermissionTable(mapping map[string][]string) *PermissionTable {
	grants := make(map[string]map[string]struct{}, len(mapping))
	for role, perms := range mapping {
		set := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		grants[role] = set
	}
	return &PermissionTable{grants: grants}
}

// DefaultPermissionTable returns the institution's standard role grants.
func DefaultPermissionTable() *PermissionTable {
	return NewPermissionTable(map[string][]string{
		domain.RoleAdmin: {
			PermModifyRole,
			PermModifyCourse,
			PermModifyUser,
			PermViewRoles,
			PermAssignInstructor,
			PermViewDonations,
		},
		domain.RoleInstructor: {PermViewStudentProgress},
		domain.RoleStudent:    {PermEnrollCourse},
		domain.RoleDonor:      {PermMakeDonation},
		domain.RoleParent:     {PermViewStudentProgress},
	})
}

// Allows reports whether any of the roles grants the permission.
// Unknown roles grant nothing.
func (t *PermissionTable) Allows(roles []string, permission string) bool {
	if t == nil {
		return false
	}
	for _, role := range roles {
		if _, ok := t.grants[role][permission]; ok {
			return true
		}
	}
	return false
}

// Permissions returns the union of permissions granted to the roles.
func (t *PermissionTable) Permissions(roles []string) []string {
	if t == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, role := range roles {
		for perm := range t.grants[role] {
			if _, dup := seen[perm]; dup {
				continue
			}
			seen[perm] = struct{}{}
			out = append(out, perm)
		}
	}
	return out
}

// Require rejects requests whose identity lacks the permission.
func (t *PermissionTable) Require(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok || !t.Allows(identity.Roles, permission) {
			return apperrors.NewForbidden("Forbidden")
		}
		return c.Next()
	}
}
