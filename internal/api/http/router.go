package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/api/http/handlers"
	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	PasswordReset  *handlers.PasswordResetHandler
	Users          *handlers.UsersHandler
	Roles          *handlers.RolesHandler
	Courses        *handlers.CoursesHandler
	Donations      *handlers.DonationsHandler
	AuthMiddleware *auth.AuthMiddleware
	Permissions    *auth.PermissionTable
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/login", cfg.Auth.Login)
	api.Post("/logout", cfg.Auth.Logout)
	api.Get("/test-token", cfg.Auth.TestToken)
	api.Post("/request-otp", cfg.PasswordReset.RequestOTP)
	api.Post("/verify-otp", cfg.PasswordReset.VerifyOTP)

	authn := cfg.AuthMiddleware.Handle
	perms := cfg.Permissions

	api.Get("/check-auth", authn, cfg.Auth.CheckAuth)
	api.Get("/profile", authn, cfg.Auth.Profile)

	api.Get("/roles", authn, perms.Require(auth.PermViewRoles), cfg.Roles.List)
	api.Get("/roles/:roleid/users", authn, perms.Require(auth.PermViewRoles), cfg.Roles.UsersWithRole)

	// Registered before /users/:uid so "roles" is never parsed as a uid.
	api.Post("/users/roles", authn, perms.Require(auth.PermModifyRole), cfg.Roles.Assign)
	api.Get("/users/:uid/roles", authn, perms.Require(auth.PermViewRoles), cfg.Roles.RolesForUser)
	api.Delete("/users/:uid/roles/:roleid", authn, perms.Require(auth.PermModifyRole), cfg.Roles.Remove)

	modifyUser := perms.Require(auth.PermModifyUser)
	api.Post("/users", authn, modifyUser, cfg.Users.Create)
	api.Get("/users", authn, modifyUser, cfg.Users.List)
	api.Get("/users/:uid", authn, modifyUser, cfg.Users.Get)
	api.Put("/users/:uid", authn, modifyUser, cfg.Users.Update)
	api.Delete("/users/:uid", authn, modifyUser, cfg.Users.Delete)

	api.Get("/courses", cfg.Courses.List)
	api.Get("/courses/:cid", cfg.Courses.Get)
	api.Get("/courses/:cid/instructors", cfg.Courses.Instructors)

	modifyCourse := perms.Require(auth.PermModifyCourse)
	api.Post("/courses", authn, modifyCourse, cfg.Courses.Create)
	api.Put("/courses/:cid", authn, modifyCourse, cfg.Courses.Update)
	api.Delete("/courses/:cid", authn, modifyCourse, cfg.Courses.Delete)

	assignInstructor := perms.Require(auth.PermAssignInstructor)
	api.Post("/courses/:cid/instructors/:uid", authn, assignInstructor, cfg.Courses.AssignInstructor)
	api.Delete("/courses/:cid/instructors/:uid", authn, assignInstructor, cfg.Courses.RemoveInstructor)

	api.Post("/courses/:cid/enroll", authn, perms.Require(auth.PermEnrollCourse), cfg.Courses.Enroll)
	api.Get("/courses/:cid/students", authn, perms.Require(auth.PermViewStudentProgress), cfg.Courses.Students)

	api.Post("/transactions", cfg.Donations.CreateTransaction)
	api.Post("/donations", authn, perms.Require(auth.PermMakeDonation), cfg.Donations.Donate)

	viewDonations := perms.Require(auth.PermViewDonations)
	api.Get("/transactions", authn, viewDonations, cfg.Donations.ListTransactions)
	api.Get("/transactions/:tid", authn, viewDonations, cfg.Donations.GetTransaction)
	api.Get("/donors", authn, viewDonations, cfg.Donations.ListDonors)
}
