package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/repository"
)

var _ repository.CourseRepository = (*CourseRepository)(nil)

type courseMember struct {
	courseID int64
	uid      int64
}

// CourseRepository keeps courses, instructor links and enrollments in memory.
type CourseRepository struct {
	mu          sync.Mutex
	nextID      int64
	courses     map[int64]*domain.Course
	instructors map[courseMember]struct{}
	enrollments map[courseMember]domain.Enrollment
	users       *UserRepository
}

// NewCourseRepository returns an empty repository. Instructor and student
// lookups read names from users.
func NewCourseRepository(users *UserRepository) *CourseRepository {
	return &CourseRepository{
		nextID:      1,
		courses:     make(map[int64]*domain.Course),
		instructors: make(map[courseMember]struct{}),
		enrollments: make(map[courseMember]domain.Enrollment),
		users:       users,
	}
}

func (r *CourseRepository) List(context.Context) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CourseRepository) GetByID(_ context.Context, courseID int64) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[courseID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *CourseRepository) Create(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	course.ID = r.nextID
	r.nextID++
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *CourseRepository) Update(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.courses[course.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	course.CreatedAt = existing.CreatedAt
	course.UpdatedAt = time.Now()
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *CourseRepository) Delete(_ context.Context, courseID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[courseID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.courses, courseID)
	for m := range r.instructors {
		if m.courseID == courseID {
			delete(r.instructors, m)
		}
	}
	for m := range r.enrollments {
		if m.courseID == courseID {
			delete(r.enrollments, m)
		}
	}
	return nil
}

func (r *CourseRepository) AssignInstructor(_ context.Context, courseID, uid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := courseMember{courseID: courseID, uid: uid}
	if _, dup := r.instructors[m]; dup {
		return repository.ErrDuplicate
	}
	r.instructors[m] = struct{}{}
	return nil
}

func (r *CourseRepository) RemoveInstructor(_ context.Context, courseID, uid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := courseMember{courseID: courseID, uid: uid}
	if _, ok := r.instructors[m]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.instructors, m)
	return nil
}

func (r *CourseRepository) Instructors(ctx context.Context, courseID int64) ([]domain.User, error) {
	r.mu.Lock()
	var uids []int64
	for m := range r.instructors {
		if m.courseID == courseID {
			uids = append(uids, m.uid)
		}
	}
	r.mu.Unlock()
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	out := make([]domain.User, 0, len(uids))
	for _, uid := range uids {
		u, err := r.users.GetByUID(ctx, uid)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *CourseRepository) Enroll(_ context.Context, enrollment *domain.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := courseMember{courseID: enrollment.CourseID, uid: enrollment.UID}
	if _, dup := r.enrollments[m]; dup {
		return repository.ErrDuplicate
	}
	enrollment.EnrolledAt = time.Now()
	r.enrollments[m] = *enrollment
	return nil
}

func (r *CourseRepository) Students(ctx context.Context, courseID int64) ([]domain.Enrollment, error) {
	r.mu.Lock()
	var out []domain.Enrollment
	for m, e := range r.enrollments {
		if m.courseID == courseID {
			out = append(out, e)
		}
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })

	students := make([]domain.Enrollment, 0, len(out))
	for _, e := range out {
		u, err := r.users.GetByUID(ctx, e.UID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		e.FirstName, e.LastName = u.FirstName, u.LastName
		students = append(students, e)
	}
	return students, nil
}
