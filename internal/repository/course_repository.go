package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
)

// CourseRepository manages courses, their instructors and enrollments.
type CourseRepository interface {
	List(ctx context.Context) ([]domain.Course, error)
	GetByID(ctx context.Context, courseID int64) (*domain.Course, error)
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, courseID int64) error
	AssignInstructor(ctx context.Context, courseID, uid int64) error
	RemoveInstructor(ctx context.Context, courseID, uid int64) error
	Instructors(ctx context.Context, courseID int64) ([]domain.User, error)
	Enroll(ctx context.Context, enrollment *domain.Enrollment) error
	Students(ctx context.Context, courseID int64) ([]domain.Enrollment, error)
}

type courseRepository struct {
	db DB
}

// NewCourseRepository returns a Postgres-backed implementation.
func NewCourseRepository(db DB) CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `course_id, title, start_date, end_date, location, created_at, updated_at`

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var course domain.Course
	if err := row.Scan(
		&course.ID,
		&course.Title,
		&course.StartDate,
		&course.EndDate,
		&course.Location,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY course_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}

func (r *courseRepository) GetByID(ctx context.Context, courseID int64) (*domain.Course, error) {
	return scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE course_id=$1`, courseID))
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (title, start_date, end_date, location)
        VALUES ($1, $2, $3, $4)
        RETURNING course_id, created_at, updated_at`

	return r.db.QueryRow(ctx, query, course.Title, course.StartDate, course.EndDate, course.Location).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET title=$1, start_date=$2, end_date=$3, location=$4, updated_at=NOW()
        WHERE course_id=$5
        RETURNING created_at, updated_at`

	return r.db.QueryRow(ctx, query, course.Title, course.StartDate, course.EndDate, course.Location, course.ID).
		Scan(&course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Delete(ctx context.Context, courseID int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM courses WHERE course_id=$1`, courseID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) AssignInstructor(ctx context.Context, courseID, uid int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO course_instructors (uid, course_id) VALUES ($1, $2)`, uid, courseID)
	return translateError(err)
}

func (r *courseRepository) RemoveInstructor(ctx context.Context, courseID, uid int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM course_instructors WHERE uid=$1 AND course_id=$2`, uid, courseID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) Instructors(ctx context.Context, courseID int64) ([]domain.User, error) {
	const query = `
        SELECT u.uid, u.first_name, u.middle_name, u.last_name, u.dob, u.email, u.phone_number,
            u.address, u.city, u.province, u.postal_code, u.password_hash, u.created_at, u.updated_at
        FROM users u
        JOIN course_instructors ci ON u.uid = ci.uid
        WHERE ci.course_id=$1
        ORDER BY u.uid`

	rows, err := r.db.Query(ctx, query, courseID)
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

func (r *courseRepository) Enroll(ctx context.Context, enrollment *domain.Enrollment) error {
	const query = `
        INSERT INTO enrollments (uid, course_id, status)
        VALUES ($1, $2, $3)
        RETURNING final_grade, enrolled_at`

	err := r.db.QueryRow(ctx, query, enrollment.UID, enrollment.CourseID, enrollment.Status).
		Scan(&enrollment.FinalGrade, &enrollment.EnrolledAt)
	return translateError(err)
}

func (r *courseRepository) Students(ctx context.Context, courseID int64) ([]domain.Enrollment, error) {
	const query = `
        SELECT e.uid, e.course_id, e.status, e.final_grade, e.enrolled_at, u.first_name, u.last_name
        FROM enrollments e
        JOIN users u ON e.uid = u.uid
        WHERE e.course_id=$1
        ORDER BY e.uid`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]domain.Enrollment, 0)
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.UID, &e.CourseID, &e.Status, &e.FinalGrade, &e.EnrolledAt, &e.FirstName, &e.LastName); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
