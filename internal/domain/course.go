package domain

import "time"

// EnrollmentEnrolled is the status given to a new enrollment.
const EnrollmentEnrolled = "Enrolled"

// Course is a scheduled offering that instructors teach and students enroll in.
type Course struct {
	ID        int64
	Title     string
	StartDate *time.Time
	EndDate   *time.Time
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enrollment places a student in a course. FirstName and LastName are filled on reads.
type Enrollment struct {
	UID        int64
	CourseID   int64
	Status     string
	FinalGrade string
	EnrolledAt time.Time
	FirstName  string
	LastName   string
}
