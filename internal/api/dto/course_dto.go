package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/institute-service/internal/domain"
)

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	Title     string `json:"Title"`
	StartDate string `json:"StartDate"`
	EndDate   string `json:"EndDate"`
	Location  string `json:"Location"`
}

// ParseDates parses the optional start and end dates.
func (r CourseRequest) ParseDates() (start, end *time.Time, err error) {
	if start, err = parseDate(r.StartDate); err != nil {
		return nil, nil, err
	}
	if end, err = parseDate(r.EndDate); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if len(raw) > len(DateLayout) {
		raw = raw[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

type CourseResponse struct {
	CourseID  int64  `json:"CourseID"`
	Title     string `json:"Title"`
	StartDate string `json:"StartDate,omitempty"`
	EndDate   string `json:"EndDate,omitempty"`
	Location  string `json:"Location,omitempty"`
}

func NewCourseResponse(c *domain.Course) CourseResponse {
	return CourseResponse{
		CourseID:  c.ID,
		Title:     c.Title,
		StartDate: formatDate(c.StartDate),
		EndDate:   formatDate(c.EndDate),
		Location:  c.Location,
	}
}

func NewCourseResponses(courses []domain.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i]))
	}
	return out
}

// EnrollmentResponse lists a student in a course.
type EnrollmentResponse struct {
	UID        int64     `json:"UID"`
	FirstName  string    `json:"FirstName,omitempty"`
	LastName   string    `json:"LastName,omitempty"`
	CourseID   int64     `json:"CourseID"`
	Status     string    `json:"Status"`
	FinalGrade string    `json:"FinalGrade,omitempty"`
	EnrolledAt time.Time `json:"EnrollDate"`
}

func NewEnrollmentResponse(e *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		UID:        e.UID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		CourseID:   e.CourseID,
		Status:     e.Status,
		FinalGrade: e.FinalGrade,
		EnrolledAt: e.EnrolledAt,
	}
}

func NewEnrollmentResponses(enrollments []domain.Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		out = append(out, NewEnrollmentResponse(&enrollments[i]))
	}
	return out
}
