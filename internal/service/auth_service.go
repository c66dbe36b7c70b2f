package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/config"
	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/repository"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	FirstName   string
	MiddleName  string
	LastName    string
	DOB         *time.Time
	Email       string
	PhoneNumber string
	Address     string
	City        string
	Province    string
	PostalCode  string
	Password    string
}

// Session is an issued token together with the identity it encodes.
type Session struct {
	Identity  domain.Identity
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	tokenMgr auth.TokenIssuer
	hasher   *auth.Hasher
	app      config.AppConfig
	testUID  int64
	testRole []string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	RoleRepo repository.RoleRepository
	Tokens   auth.TokenIssuer
	Hasher   *auth.Hasher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewHasher(cfg.Auth.BcryptCost)
	}
	return &AuthService{
		users:    deps.UserRepo,
		roles:    deps.RoleRepo,
		tokenMgr: tokens,
		hasher:   hasher,
		app:      cfg.App,
		testUID:  cfg.Auth.TestTokenUID,
		testRole: cfg.Auth.TestTokenRoles,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.NewInvalidRequest("FirstName, LastName, Email and Password are required", nil)
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		MiddleName:   in.MiddleName,
		LastName:     in.LastName,
		DOB:          in.DOB,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		City:         in.City,
		Province:     in.Province,
		PostalCode:   in.PostalCode,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("User with this email already exists", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Login checks credentials and issues a session carrying the user's current roles.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, apperrors.NewInvalidRequest("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewDomainError(apperrors.CodeNotFound, "Invalid email or password", http.StatusNotFound, nil)
		}
		return nil, nil, apperrors.NewInternalError(err)
	}

	if err := s.hasher.Compare(ctx, user.PasswordHash, password); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, apperrors.NewInternalError(ctxErr)
		}
		return nil, nil, apperrors.NewUnauthorized("Invalid email or password")
	}

	roles, err := s.roles.RolesForUser(ctx, user.UID)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}

	session, err := s.issue(domain.NewIdentity(user.UID, names))
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// TestSession mints a token for the configured test identity outside production.
func (s *AuthService) TestSession() (*Session, error) {
	if s.app.IsProduction() {
		return nil, apperrors.NewForbidden("test tokens are disabled in production")
	}
	return s.issue(domain.NewIdentity(s.testUID, s.testRole))
}

func (s *AuthService) issue(identity domain.Identity) (*Session, error) {
	token, exp, err := s.tokenMgr.Issue(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Identity: identity, Token: token, ExpiresAt: exp}, nil
}
