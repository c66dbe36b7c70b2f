package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/institute-service/internal/api/http/handlers"
	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/config"
	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/events"
	"github.com/spec-kit/institute-service/internal/observability"
	"github.com/spec-kit/institute-service/internal/otp"
	"github.com/spec-kit/institute-service/internal/repository/memory"
	"github.com/spec-kit/institute-service/internal/service"
)

const (
	adminPassword   = "AdminPass1!"
	studentPassword = "StudentPass1!"
)

type testServer struct {
	app     *fiber.App
	tokens  auth.TokenIssuer
	users   *memory.UserRepository
	metrics *observability.Metrics

	mu    sync.Mutex
	codes map[string]string
}

type response struct {
	status  int
	body    map[string]any
	cookies map[string]string
}

func newTestServer(t *testing.T, env string) *testServer {
	t.Helper()
	ctx := context.Background()

	cfg := config.Config{
		App: config.AppConfig{Name: "institute-service", Env: env, Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:      "a-string-secret-at-least-256-bits-long",
			TokenTTLHours:  1,
			BcryptCost:     auth.MinBcryptCost,
			TestTokenUID:   1,
			TestTokenRoles: []string{domain.RoleAdmin},
		},
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	adminHash, err := hasher.Hash(ctx, adminPassword)
	require.NoError(t, err)
	studentHash, err := hasher.Hash(ctx, studentPassword)
	require.NoError(t, err)

	users := memory.NewUserRepository(
		domain.User{UID: 1, FirstName: "Ada", LastName: "Admin", Email: "admin@example.com", PasswordHash: adminHash},
		domain.User{UID: 2, FirstName: "Sam", LastName: "Student", Email: "student@example.com", PhoneNumber: "6045551234", PasswordHash: studentHash},
	)
	roles := memory.NewRoleRepository(users)
	require.NoError(t, roles.Assign(ctx, domain.RoleAssignment{UID: 1, RoleID: 1}))
	require.NoError(t, roles.Assign(ctx, domain.RoleAssignment{UID: 2, RoleID: 3}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	metrics := observability.NewMetrics()
	srv := &testServer{users: users, metrics: metrics, codes: make(map[string]string)}

	dispatcher := events.NewInMemoryDispatcher(nil)
	dispatcher.Subscribe(events.EventOTPRequested, func(_ context.Context, e events.Event) error {
		p := e.Payload.(events.OTPRequestedPayload)
		srv.mu.Lock()
		srv.codes[p.Contact.Value] = p.Code
		srv.mu.Unlock()
		return nil
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	srv.tokens = tokens
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo: users, RoleRepo: roles, Tokens: tokens, Hasher: hasher,
	})
	userService := service.NewUserService(users)
	otpService := otp.NewService(otp.NewRedisStore(client), nil, metrics)
	resetService := service.NewPasswordResetService(users, otpService, hasher, dispatcher, nil)
	roleService := service.NewRoleService(roles, users, dispatcher)
	courseService := service.NewCourseService(memory.NewCourseRepository(users), users, roles, dispatcher)
	donationService := service.NewDonationService(memory.NewDonationRepository(), users, dispatcher, nil)

	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{Metrics: metrics, Timeout: 5 * time.Second, Debug: !cfg.App.IsProduction()})
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil, nil),
		Auth:           handlers.NewAuthHandler(authService, userService, false),
		PasswordReset:  handlers.NewPasswordResetHandler(resetService),
		Users:          handlers.NewUsersHandler(userService, authService),
		Roles:          handlers.NewRolesHandler(roleService),
		Courses:        handlers.NewCoursesHandler(courseService),
		Donations:      handlers.NewDonationsHandler(donationService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Permissions:    auth.DefaultPermissionTable(),
		Metrics:        metrics,
	})
	srv.app = app
	return srv
}

func (s *testServer) code(contact string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[contact]
}

func (s *testServer) tokenFor(t *testing.T, uid int64, roles ...string) string {
	t.Helper()
	token, _, err := s.tokens.Issue(domain.NewIdentity(uid, roles))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderCookie, auth.CookieName+"="+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode, cookies: map[string]string{}}
	for _, c := range resp.Cookies() {
		out.cookies[c.Name] = c.Value
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func errorCode(r response) string {
	errBody, _ := r.body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestCheckAuth(t *testing.T) {
	s := newTestServer(t, "development")

	r := s.do(t, fiber.MethodGet, "/api/check-auth", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
	assert.Equal(t, "Unauthorized", r.body["message"])
	assert.Equal(t, false, r.body["success"])

	r = s.do(t, fiber.MethodGet, "/api/check-auth", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
	assert.Equal(t, "Invalid Token", r.body["message"])

	r = s.do(t, fiber.MethodGet, "/api/check-auth", s.tokenFor(t, 2, domain.RoleStudent), nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Authorized", r.body["message"])
	user := r.body["user"].(map[string]any)
	assert.EqualValues(t, 2, user["uid"])
	assert.Equal(t, []any{domain.RoleStudent}, user["roles"])
}

func TestLoginSetsCookie(t *testing.T) {
	s := newTestServer(t, "development")

	r := s.do(t, fiber.MethodPost, "/api/login", "", map[string]string{"email": "admin@example.com", "password": adminPassword})
	require.Equal(t, fiber.StatusOK, r.status)
	token := r.cookies[auth.CookieName]
	require.NotEmpty(t, token)

	r = s.do(t, fiber.MethodGet, "/api/roles", token, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.body["roles"], 5)

	r = s.do(t, fiber.MethodPost, "/api/login", "", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, r.status)

	r = s.do(t, fiber.MethodPost, "/api/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, fiber.StatusNotFound, r.status)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	s := newTestServer(t, "development")

	r := s.do(t, fiber.MethodPost, "/api/logout", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Logged out successfully", r.body["message"])
	token, ok := r.cookies[auth.CookieName]
	assert.True(t, ok)
	assert.Empty(t, token)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t, "development")
	body := map[string]string{
		"FirstName": "Test",
		"LastName":  "User",
		"DOB":       "1990-01-01",
		"Email":     "testuser@example.com",
		"Password":  "TestPassword123!",
	}

	r := s.do(t, fiber.MethodPost, "/api/register", "", body)
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "User registered successfully", r.body["message"])
	assert.EqualValues(t, 3, r.body["UID"])

	r = s.do(t, fiber.MethodPost, "/api/register", "", body)
	assert.Equal(t, fiber.StatusConflict, r.status)
	assert.Equal(t, "CONFLICT", errorCode(r))
}

func TestPermissionGates(t *testing.T) {
	s := newTestServer(t, "development")
	student := s.tokenFor(t, 2, domain.RoleStudent)
	admin := s.tokenFor(t, 1, domain.RoleAdmin)
	nobody := s.tokenFor(t, 2)

	for _, tc := range []struct {
		method, path string
	}{
		{fiber.MethodGet, "/api/roles"},
		{fiber.MethodGet, "/api/users"},
		{fiber.MethodGet, "/api/users/2/roles"},
		{fiber.MethodDelete, "/api/users/2/roles/3"},
		{fiber.MethodPost, "/api/users"},
		{fiber.MethodPost, "/api/courses"},
		{fiber.MethodPut, "/api/courses/1"},
		{fiber.MethodDelete, "/api/courses/1"},
		{fiber.MethodPost, "/api/courses/1/instructors/2"},
		{fiber.MethodGet, "/api/courses/1/students"},
		{fiber.MethodPost, "/api/donations"},
		{fiber.MethodGet, "/api/transactions"},
		{fiber.MethodGet, "/api/transactions/1"},
		{fiber.MethodGet, "/api/donors"},
	} {
		r := s.do(t, tc.method, tc.path, student, nil)
		assert.Equal(t, fiber.StatusForbidden, r.status, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Forbidden", r.body["message"])

		r = s.do(t, tc.method, tc.path, nobody, nil)
		assert.Equal(t, fiber.StatusForbidden, r.status, "%s %s", tc.method, tc.path)
	}

	r := s.do(t, fiber.MethodGet, "/api/users/2/roles", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	roles := r.body["roles"].([]any)
	require.Len(t, roles, 1)
	assert.Equal(t, domain.RoleStudent, roles[0].(map[string]any)["RoleName"])
}

func TestRoleAssignment(t *testing.T) {
	s := newTestServer(t, "development")
	admin := s.tokenFor(t, 1, domain.RoleAdmin)

	r := s.do(t, fiber.MethodPost, "/api/users/roles", admin, map[string]int64{"UID": 2, "RoleID": 5})
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "Role 5 Assigned to User 2", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/users/roles", admin, map[string]int64{"UID": 2, "RoleID": 5})
	assert.Equal(t, fiber.StatusConflict, r.status)
	assert.Equal(t, "User already has this role assigned.", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/users/roles", admin, map[string]int64{"UID": 99, "RoleID": 5})
	assert.Equal(t, fiber.StatusNotFound, r.status)

	r = s.do(t, fiber.MethodGet, "/api/roles/5/users", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.body["users"], 1)

	r = s.do(t, fiber.MethodDelete, "/api/users/2/roles/5", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)

	r = s.do(t, fiber.MethodDelete, "/api/users/2/roles/5", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "User 2 does not have Role 5", r.body["message"])
}

func TestUsersCRUD(t *testing.T) {
	s := newTestServer(t, "development")
	admin := s.tokenFor(t, 1, domain.RoleAdmin)

	r := s.do(t, fiber.MethodGet, "/api/users/2", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	user := r.body["user"].(map[string]any)
	assert.Equal(t, "student@example.com", user["Email"])
	assert.NotContains(t, user, "PasswordHash")

	r = s.do(t, fiber.MethodPut, "/api/users/2", admin, map[string]string{
		"FirstName": "Samira", "LastName": "Student", "Email": "student@example.com", "City": "Surrey",
	})
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "User with UID 2 updated successfully.", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/users", admin, map[string]string{
		"FirstName": "Nadia", "LastName": "New", "Email": "nadia@example.com", "Password": "NadiaPass1!",
	})
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "User created successfully", r.body["message"])
	assert.EqualValues(t, 3, r.body["UID"])

	r = s.do(t, fiber.MethodPost, "/api/users", admin, map[string]string{
		"FirstName": "Nadia", "LastName": "New", "Email": "NADIA@example.com", "Password": "NadiaPass1!",
	})
	assert.Equal(t, fiber.StatusConflict, r.status)

	r = s.do(t, fiber.MethodGet, "/api/users/abc", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = s.do(t, fiber.MethodDelete, "/api/users/2", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)

	r = s.do(t, fiber.MethodDelete, "/api/users/2", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "User not found", r.body["message"])
}

func TestProfile(t *testing.T) {
	s := newTestServer(t, "development")

	r := s.do(t, fiber.MethodGet, "/api/profile", s.tokenFor(t, 2, domain.RoleStudent), nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Sam", r.body["user"].(map[string]any)["FirstName"])
}

func TestTestToken(t *testing.T) {
	dev := newTestServer(t, "development")
	r := dev.do(t, fiber.MethodGet, "/api/test-token", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	token := r.cookies[auth.CookieName]
	require.NotEmpty(t, token)

	r = dev.do(t, fiber.MethodGet, "/api/check-auth", token, nil)
	assert.Equal(t, fiber.StatusOK, r.status)

	prod := newTestServer(t, "production")
	r = prod.do(t, fiber.MethodGet, "/api/test-token", "", nil)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	assert.Empty(t, r.cookies[auth.CookieName])
}

func TestRequestOTP(t *testing.T) {
	s := newTestServer(t, "development")
	const msg = "If that contact exists, an OTP has been sent."

	r := s.do(t, fiber.MethodPost, "/api/request-otp", "", map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "Email or phone number is required.", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/request-otp", "", map[string]string{"email": "ghost@example.com"})
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, msg, r.body["message"])
	assert.Empty(t, s.code("ghost@example.com"))

	r = s.do(t, fiber.MethodPost, "/api/request-otp", "", map[string]string{"phone": "6045551234"})
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, msg, r.body["message"])
	assert.Len(t, s.code("6045551234"), otp.DefaultLength)
}

func TestPasswordResetEndToEnd(t *testing.T) {
	s := newTestServer(t, "development")
	contact := map[string]string{"email": "student@example.com"}

	r := s.do(t, fiber.MethodPost, "/api/request-otp", "", contact)
	require.Equal(t, fiber.StatusOK, r.status)
	code := s.code("student@example.com")
	require.Len(t, code, otp.DefaultLength)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	r = s.do(t, fiber.MethodPost, "/api/verify-otp", "", map[string]string{
		"email": "student@example.com", "otp": wrong, "newPassword": "NewPass123!",
	})
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "INVALID_OTP", errorCode(r))
	assert.Equal(t, "Invalid or expired OTP", r.body["message"])

	verify := map[string]string{"email": "student@example.com", "otp": code, "newPassword": "NewPass123!"}
	r = s.do(t, fiber.MethodPost, "/api/verify-otp", "", verify)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Password reset successful", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/login", "", map[string]string{"email": "student@example.com", "password": "NewPass123!"})
	assert.Equal(t, fiber.StatusOK, r.status)

	r = s.do(t, fiber.MethodPost, "/api/verify-otp", "", verify)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "INVALID_OTP", errorCode(r))
}

func TestVerifyOTP_OversizedPassword(t *testing.T) {
	s := newTestServer(t, "development")

	r := s.do(t, fiber.MethodPost, "/api/request-otp", "", map[string]string{"email": "Student@Example.com"})
	require.Equal(t, fiber.StatusOK, r.status)
	code := s.code("student@example.com")
	require.Len(t, code, otp.DefaultLength)

	r = s.do(t, fiber.MethodPost, "/api/verify-otp", "", map[string]string{
		"email": "student@example.com", "otp": code, "newPassword": strings.Repeat("x", 80),
	})
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "INVALID_REQUEST", errorCode(r))

	r = s.do(t, fiber.MethodPost, "/api/verify-otp", "", map[string]string{
		"email": "student@example.com", "otp": code, "newPassword": "NewPass123!",
	})
	assert.Equal(t, fiber.StatusOK, r.status)
}

func TestVerifyOTP_UnknownUser(t *testing.T) {
	s := newTestServer(t, "development")
	r := s.do(t, fiber.MethodPost, "/api/verify-otp", "", map[string]string{
		"email": "ghost@example.com", "otp": "123456", "newPassword": "x",
	})
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "NOT_FOUND", errorCode(r))
}

func TestErrorRendering(t *testing.T) {
	dev := newTestServer(t, "development")

	r := dev.do(t, fiber.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "NOT_FOUND", errorCode(r))

	r = dev.do(t, fiber.MethodGet, "/boom", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, r.status)
	assert.Equal(t, "server error", r.body["message"])
	debugInfo, ok := r.body["debug"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, debugInfo["cause"], "kaboom")
	assert.NotEmpty(t, debugInfo["stack"])

	prod := newTestServer(t, "production")
	r = prod.do(t, fiber.MethodGet, "/boom", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, r.status)
	assert.NotContains(t, r.body, "debug")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "development")

	r := s.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "alive", r.body["status"])

	r = s.do(t, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, r.status)

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "institute_http_requests_total")
}

func TestCourses(t *testing.T) {
	s := newTestServer(t, "development")
	admin := s.tokenFor(t, 1, domain.RoleAdmin)
	student := s.tokenFor(t, 2, domain.RoleStudent)
	instructor := s.tokenFor(t, 1, domain.RoleInstructor)

	r := s.do(t, fiber.MethodPost, "/api/courses", admin, map[string]string{
		"Title": "Arabic I", "StartDate": "2026-09-01", "EndDate": "2026-12-15", "Location": "Room 4",
	})
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "Course created successfully", r.body["message"])
	assert.EqualValues(t, 1, r.body["CourseID"])

	r = s.do(t, fiber.MethodPost, "/api/courses", admin, map[string]string{"Title": "Bad", "StartDate": "tomorrow"})
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = s.do(t, fiber.MethodGet, "/api/courses", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.body["courses"], 1)

	r = s.do(t, fiber.MethodGet, "/api/courses/1", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	course := r.body["course"].(map[string]any)
	assert.Equal(t, "Arabic I", course["Title"])
	assert.Equal(t, "2026-09-01", course["StartDate"])

	r = s.do(t, fiber.MethodPut, "/api/courses/1", admin, map[string]string{"Title": "Arabic II"})
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Course with CourseID 1 updated successfully.", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/courses/1/instructors/1", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "User 1 is not an Instructor", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/users/roles", admin, map[string]int64{"UID": 1, "RoleID": 2})
	require.Equal(t, fiber.StatusCreated, r.status)

	r = s.do(t, fiber.MethodPost, "/api/courses/1/instructors/1", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "User 1 assigned to Course 1", r.body["message"])

	r = s.do(t, fiber.MethodGet, "/api/courses/1/instructors", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.body["instructors"], 1)

	r = s.do(t, fiber.MethodPost, "/api/courses/1/enroll", student, nil)
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "User 2 enrolled in Course 1", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/courses/1/enroll", student, nil)
	assert.Equal(t, fiber.StatusConflict, r.status)

	r = s.do(t, fiber.MethodGet, "/api/courses/1/students", instructor, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	students := r.body["students"].([]any)
	require.Len(t, students, 1)
	assert.Equal(t, "Sam", students[0].(map[string]any)["FirstName"])

	r = s.do(t, fiber.MethodDelete, "/api/courses/1/instructors/1", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)

	r = s.do(t, fiber.MethodDelete, "/api/courses/1", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Course with CourseID 1 deleted successfully.", r.body["message"])

	r = s.do(t, fiber.MethodGet, "/api/courses/1", "", nil)
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "Course not found", r.body["message"])
}

func TestDonations(t *testing.T) {
	s := newTestServer(t, "development")
	admin := s.tokenFor(t, 1, domain.RoleAdmin)
	donor := s.tokenFor(t, 2, domain.RoleDonor)

	r := s.do(t, fiber.MethodPost, "/api/transactions", "", map[string]any{
		"EMAIL": "guest@example.com", "FIRSTNAME": "Gus", "LASTNAME": "Guest", "AMOUNT": 25.5, "METHOD": "cash",
	})
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "Transaction and new donor (non-user) created successfully.", r.body["message"])
	assert.Regexp(t, `^RCPT-\d{8}-[0-9a-f]{6}$`, r.body["RECEIPT_NUMBER"])

	r = s.do(t, fiber.MethodPost, "/api/transactions", "", map[string]any{"EMAIL": "guest@example.com", "AMOUNT": 0})
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = s.do(t, fiber.MethodPost, "/api/donations", donor, map[string]any{"AMOUNT": 10})
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "Transaction and new donor (user) created successfully.", r.body["message"])

	r = s.do(t, fiber.MethodPost, "/api/transactions", "", map[string]any{"EMAIL": "Student@example.com", "AMOUNT": 5})
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, "Transaction created for existing donor.", r.body["message"])

	r = s.do(t, fiber.MethodGet, "/api/transactions", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.body["transactions"], 3)

	r = s.do(t, fiber.MethodGet, "/api/transactions/1", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	txn := r.body["transaction"].(map[string]any)
	assert.Equal(t, 25.5, txn["AMOUNT"])

	r = s.do(t, fiber.MethodGet, "/api/transactions/99", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, r.status)

	r = s.do(t, fiber.MethodGet, "/api/donors", admin, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	donors := r.body["donors"].([]any)
	require.Len(t, donors, 2)
	student := donors[1].(map[string]any)
	assert.EqualValues(t, 2, student["UID"])
	assert.Equal(t, 15.0, student["AMOUNT_DONATED"])
}
