package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/events"
	"github.com/spec-kit/institute-service/internal/repository"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// CourseInput carries the editable course fields.
type CourseInput struct {
	Title     string
	StartDate *time.Time
	EndDate   *time.Time
	Location  string
}

func (in CourseInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.NewInvalidRequest("Title is required", nil)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return apperrors.NewInvalidRequest("EndDate must not be before StartDate", nil)
	}
	return nil
}

func (in CourseInput) applyTo(course *domain.Course) {
	course.Title = strings.TrimSpace(in.Title)
	course.StartDate = in.StartDate
	course.EndDate = in.EndDate
	course.Location = in.Location
}

// CourseService manages courses, instructor assignment and enrollment.
type CourseService struct {
	courses    repository.CourseRepository
	users      repository.UserRepository
	roles      repository.RoleRepository
	dispatcher events.Dispatcher
}

// NewCourseService builds the service.
func NewCourseService(courses repository.CourseRepository, users repository.UserRepository, roles repository.RoleRepository, dispatcher events.Dispatcher) *CourseService {
	return &CourseService{courses: courses, users: users, roles: roles, dispatcher: dispatcher}
}

func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, courseID int64) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, notFoundOr(err, "Course")
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (*domain.Course, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var course domain.Course
	in.applyTo(&course)
	if err := s.courses.Create(ctx, &course); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &course, nil
}

// Update replaces every editable field of an existing course.
func (s *CourseService) Update(ctx context.Context, courseID int64, in CourseInput) (*domain.Course, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	course := domain.Course{ID: courseID}
	in.applyTo(&course)
	if err := s.courses.Update(ctx, &course); err != nil {
		return nil, notFoundOr(err, "Course")
	}
	return &course, nil
}

func (s *CourseService) Delete(ctx context.Context, courseID int64) error {
	if err := s.courses.Delete(ctx, courseID); err != nil {
		return notFoundOr(err, "Course")
	}
	return nil
}

// AssignInstructor links a user holding the Instructor role to a course.
func (s *CourseService) AssignInstructor(ctx context.Context, actor domain.Identity, courseID, uid int64) error {
	if _, err := s.users.GetByUID(ctx, uid); err != nil {
		return notFoundOr(err, "User")
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return err
	}

	instructor, err := s.hasRole(ctx, uid, domain.RoleInstructor)
	if err != nil {
		return err
	}
	if !instructor {
		return apperrors.NewInvalidRequest(fmt.Sprintf("User %d is not an Instructor", uid), nil)
	}

	if err := s.courses.AssignInstructor(ctx, courseID, uid); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewConflict(fmt.Sprintf("User %d is already assigned to Course %d", uid, courseID), nil)
		}
		return apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventInstructorAssigned, uid, events.InstructorAssignedPayload{
			CourseID: courseID,
			ActorID:  actor.UID,
		}))
	}
	return nil
}

func (s *CourseService) RemoveInstructor(ctx context.Context, courseID, uid int64) error {
	if err := s.courses.RemoveInstructor(ctx, courseID, uid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewDomainError(apperrors.CodeNotFound,
				fmt.Sprintf("User %d is not assigned to Course %d", uid, courseID),
				http.StatusNotFound, nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *CourseService) Instructors(ctx context.Context, courseID int64) ([]domain.User, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	users, err := s.courses.Instructors(ctx, courseID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// Enroll places the user in the course.
func (s *CourseService) Enroll(ctx context.Context, courseID, uid int64) (*domain.Enrollment, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByUID(ctx, uid); err != nil {
		return nil, notFoundOr(err, "User")
	}

	enrollment := &domain.Enrollment{UID: uid, CourseID: courseID, Status: domain.EnrollmentEnrolled}
	if err := s.courses.Enroll(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict(fmt.Sprintf("User %d is already enrolled in Course %d", uid, courseID), nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return enrollment, nil
}

func (s *CourseService) Students(ctx context.Context, courseID int64) ([]domain.Enrollment, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	students, err := s.courses.Students(ctx, courseID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return students, nil
}

func (s *CourseService) hasRole(ctx context.Context, uid int64, name string) (bool, error) {
	roles, err := s.roles.RolesForUser(ctx, uid)
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	for _, role := range roles {
		if role.Name == name {
			return true, nil
		}
	}
	return false, nil
}
