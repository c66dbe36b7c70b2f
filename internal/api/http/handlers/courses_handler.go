package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/api/dto"
	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/service"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// CoursesHandler exposes the course catalogue, instructor assignment and enrollment.
type CoursesHandler struct {
	courses *service.CourseService
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courses *service.CourseService) *CoursesHandler {
	return &CoursesHandler{courses: courses}
}

// List handles GET /api/courses.
func (h *CoursesHandler) List(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"courses": dto.NewCourseResponses(courses)})
}

// Get handles GET /api/courses/:cid.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	cid, err := parseID(c, "cid")
	if err != nil {
		return err
	}
	course, err := h.courses.Get(c.UserContext(), cid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"course": dto.NewCourseResponse(course)})
}

// Create handles POST /api/courses.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	in, err := courseInput(c)
	if err != nil {
		return err
	}
	course, err := h.courses.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Course created successfully",
		"CourseID": course.ID,
	})
}

// Update handles PUT /api/courses/:cid.
func (h *CoursesHandler) Update(c *fiber.Ctx) error {
	cid, err := parseID(c, "cid")
	if err != nil {
		return err
	}
	in, err := courseInput(c)
	if err != nil {
		return err
	}
	if _, err := h.courses.Update(c.UserContext(), cid, in); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Course with CourseID %d updated successfully.", cid)})
}

// Delete handles DELETE /api/courses/:cid.
func (h *CoursesHandler) Delete(c *fiber.Ctx) error {
	cid, err := parseID(c, "cid")
	if err != nil {
		return err
	}
	if err := h.courses.Delete(c.UserContext(), cid); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Course with CourseID %d deleted successfully.", cid)})
}

// Instructors handles GET /api/courses/:cid/instructors.
func (h *CoursesHandler) Instructors(c *fiber.Ctx) error {
	cid, err := parseID(c, "cid")
	if err != nil {
		return err
	}
	users, err := h.courses.Instructors(c.UserContext(), cid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"instructors": dto.NewUserResponses(users)})
}

// AssignInstructor handles POST /api/courses/:cid/instructors/:uid.
func (h *CoursesHandler) AssignInstructor(c *fiber.Ctx) error {
	cid, uid, err := courseMember(c)
	if err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	if err := h.courses.AssignInstructor(c.UserContext(), actor, cid, uid); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("User %d assigned to Course %d", uid, cid)})
}

// RemoveInstructor handles DELETE /api/courses/:cid/instructors/:uid.
func (h *CoursesHandler) RemoveInstructor(c *fiber.Ctx) error {
	cid, uid, err := courseMember(c)
	if err != nil {
		return err
	}
	if err := h.courses.RemoveInstructor(c.UserContext(), cid, uid); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("User %d removed from Course %d", uid, cid)})
}

// Enroll handles POST /api/courses/:cid/enroll for the signed-in user.
func (h *CoursesHandler) Enroll(c *fiber.Ctx) error {
	cid, err := parseID(c, "cid")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)
	enrollment, err := h.courses.Enroll(c.UserContext(), cid, identity.UID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":    fmt.Sprintf("User %d enrolled in Course %d", identity.UID, cid),
		"enrollment": dto.NewEnrollmentResponse(enrollment),
	})
}

// Students handles GET /api/courses/:cid/students.
func (h *CoursesHandler) Students(c *fiber.Ctx) error {
	cid, err := parseID(c, "cid")
	if err != nil {
		return err
	}
	students, err := h.courses.Students(c.UserContext(), cid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"students": dto.NewEnrollmentResponses(students)})
}

func courseInput(c *fiber.Ctx) (service.CourseInput, error) {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return service.CourseInput{}, invalidPayload()
	}
	start, end, err := req.ParseDates()
	if err != nil {
		return service.CourseInput{}, apperrors.NewInvalidRequest("StartDate and EndDate must be formatted as YYYY-MM-DD", nil)
	}
	return service.CourseInput{Title: req.Title, StartDate: start, EndDate: end, Location: req.Location}, nil
}

func courseMember(c *fiber.Ctx) (cid, uid int64, err error) {
	if cid, err = parseID(c, "cid"); err != nil {
		return 0, 0, err
	}
	if uid, err = parseID(c, "uid"); err != nil {
		return 0, 0, err
	}
	return cid, uid, nil
}
