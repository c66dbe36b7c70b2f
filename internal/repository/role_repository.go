package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
)

// RoleRepository manages roles and their assignment to users.
type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByID(ctx context.Context, roleID int64) (*domain.Role, error)
	RolesForUser(ctx context.Context, uid int64) ([]domain.Role, error)
	UsersWithRole(ctx context.Context, roleID int64) ([]domain.User, error)
	Assign(ctx context.Context, assignment domain.RoleAssignment) error
	Remove(ctx context.Context, assignment domain.RoleAssignment) error
}

type roleRepository struct {
	db DB
}

// NewRoleRepository instantiates the repository.
func NewRoleRepository(db DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT role_id, role_name FROM roles ORDER BY role_id`)
	if err != nil {
		return nil, err
	}
	return collectRoles(rows)
}

func (r *roleRepository) GetByID(ctx context.Context, roleID int64) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx, `SELECT role_id, role_name FROM roles WHERE role_id=$1`, roleID).
		Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) RolesForUser(ctx context.Context, uid int64) ([]domain.Role, error) {
	const query = `
        SELECT r.role_id, r.role_name
        FROM user_roles ur
        JOIN roles r ON ur.role_id = r.role_id
        WHERE ur.uid=$1
        ORDER BY r.role_id`

	rows, err := r.db.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	return collectRoles(rows)
}

func (r *roleRepository) UsersWithRole(ctx context.Context, roleID int64) ([]domain.User, error) {
	const query = `
        SELECT u.uid, u.first_name, u.middle_name, u.last_name, u.dob, u.email, u.phone_number,
            u.address, u.city, u.province, u.postal_code, u.password_hash, u.created_at, u.updated_at
        FROM users u
        JOIN user_roles ur ON u.uid = ur.uid
        WHERE ur.role_id=$1
        ORDER BY u.uid`

	rows, err := r.db.Query(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *roleRepository) Assign(ctx context.Context, assignment domain.RoleAssignment) error {
	_, err := r.db.Exec(ctx, `INSERT INTO user_roles (uid, role_id) VALUES ($1, $2)`,
		assignment.UID, assignment.RoleID)
	return translateError(err)
}

func (r *roleRepository) Remove(ctx context.Context, assignment domain.RoleAssignment) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM user_roles WHERE uid=$1 AND role_id=$2`,
		assignment.UID, assignment.RoleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectRoles(rows pgx.Rows) ([]domain.Role, error) {
	defer rows.Close()
	roles := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
