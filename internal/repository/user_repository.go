package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, uid int64) error
	List(ctx context.Context) ([]domain.User, error)
	GetByUID(ctx context.Context, uid int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, uid int64, hash string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `uid, first_name, middle_name, last_name, dob, email, phone_number,
        address, city, province, postal_code, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.UID,
		&user.FirstName,
		&user.MiddleName,
		&user.LastName,
		&user.DOB,
		&user.Email,
		&user.PhoneNumber,
		&user.Address,
		&user.City,
		&user.Province,
		&user.PostalCode,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (first_name, middle_name, last_name, dob, email, phone_number,
            address, city, province, postal_code, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING uid, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.FirstName,
		user.MiddleName,
		user.LastName,
		user.DOB,
		user.Email,
		user.PhoneNumber,
		user.Address,
		user.City,
		user.Province,
		user.PostalCode,
		user.PasswordHash,
	).Scan(&user.UID, &user.CreatedAt, &user.UpdatedAt)
	return translateError(err)
}

// Update writes profile fields. The password hash is only changed through UpdatePasswordHash.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=$1, middle_name=$2, last_name=$3, dob=$4, email=$5,
            phone_number=$6, address=$7, city=$8, province=$9, postal_code=$10, updated_at=NOW()
        WHERE uid=$11`

	cmd, err := r.db.Exec(ctx, query,
		user.FirstName,
		user.MiddleName,
		user.LastName,
		user.DOB,
		user.Email,
		user.PhoneNumber,
		user.Address,
		user.City,
		user.Province,
		user.PostalCode,
		user.UID,
	)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, uid int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE uid=$1`, uid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY uid`)
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

func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid=$1`, uid))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number=$1 ORDER BY uid LIMIT 1`, phone))
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, uid int64, hash string) error {
	const query = `
        UPDATE users SET password_hash=$1, updated_at=NOW()
        WHERE uid=$2`

	cmd, err := r.db.Exec(ctx, query, hash, uid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
