package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/events"
	"github.com/spec-kit/institute-service/internal/otp"
	"github.com/spec-kit/institute-service/internal/repository"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// OTPService is the subset of otp.Service used by the reset flow.
type OTPService interface {
	Generate(length int) (string, error)
	Store(ctx context.Context, contact domain.Contact, code string) error
	Verify(ctx context.Context, contact domain.Contact, submitted string) bool
}

// ContactRequest names the account by email or phone. Email wins when both are set.
type ContactRequest struct {
	Email string
	Phone string
}

// Contact resolves the request to a single contact. Emails are lower-cased
// so a code issued for one spelling can be redeemed with another.
func (r ContactRequest) Contact() (domain.Contact, error) {
	if email := strings.ToLower(strings.TrimSpace(r.Email)); email != "" {
		return domain.Contact{Type: domain.ContactEmail, Value: email}, nil
	}
	if phone := strings.TrimSpace(r.Phone); phone != "" {
		return domain.Contact{Type: domain.ContactPhone, Value: phone}, nil
	}
	return domain.Contact{}, apperrors.NewInvalidRequest("Email or phone number is required.", nil)
}

// PasswordResetService lets a user set a new password after proving control of a contact.
// Flow state lives entirely in the OTP store.
type PasswordResetService struct {
	users      repository.UserRepository
	otps       OTPService
	hasher     *auth.Hasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPasswordResetService builds the service.
func NewPasswordResetService(users repository.UserRepository, otps OTPService, hasher *auth.Hasher, dispatcher events.Dispatcher, logger *zap.Logger) *PasswordResetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordResetService{
		users:      users,
		otps:       otps,
		hasher:     hasher,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RequestReset issues a code when the contact belongs to a user. Unknown
// contacts succeed silently so callers cannot probe for accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, req ContactRequest) error {
	contact, err := req.Contact()
	if err != nil {
		return err
	}

	user, err := s.lookup(ctx, contact)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("otp requested for unknown contact", zap.String("contact_type", string(contact.Type)))
			return nil
		}
		return apperrors.NewInternalError(err)
	}

	code, err := s.otps.Generate(otp.DefaultLength)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.otps.Store(ctx, contact, code); err != nil {
		return apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventOTPRequested, user.UID, events.OTPRequestedPayload{
			Contact: contact,
			Code:    code,
		}))
	}
	return nil
}

// VerifyAndReset consumes the code and stores the new password hash.
// The hash is computed before the code is consumed, so a bad password or a
// timeout while hashing leaves the code redeemable.
func (s *PasswordResetService) VerifyAndReset(ctx context.Context, req ContactRequest, code, newPassword string) error {
	contact, err := req.Contact()
	if err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" || newPassword == "" {
		return apperrors.NewInvalidRequest("otp and newPassword are required.", nil)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.lookup(ctx, contact)
	if err != nil {
		return notFoundOr(err, "User")
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	if !s.otps.Verify(ctx, contact, strings.TrimSpace(code)) {
		return apperrors.NewInvalidOTP()
	}

	if err := s.users.UpdatePasswordHash(ctx, user.UID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewPersistenceError(err)
		}
		return apperrors.NewInternalError(err)
	}

	s.logger.Info("password reset", zap.Int64("uid", user.UID), zap.String("contact_type", string(contact.Type)))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventPasswordReset, user.UID, events.PasswordResetPayload{Contact: contact}))
	}
	return nil
}

func (s *PasswordResetService) lookup(ctx context.Context, contact domain.Contact) (*domain.User, error) {
	if contact.Type == domain.ContactPhone {
		return s.users.GetByPhone(ctx, contact.Value)
	}
	return s.users.GetByEmail(ctx, contact.Value)
}
