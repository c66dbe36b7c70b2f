package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/observability"
)

const (
	// DefaultLength is the number of digits in a generated code.
	DefaultLength = 6
	// TTL is how long a stored code stays valid.
	TTL = 300 * time.Second

	maxLength = 18
)

// Service issues and verifies single-use numeric codes.
type Service struct {
	store   Store
	logger  *zap.Logger
	metrics *observability.Metrics
	random  io.Reader
}

// NewService builds the OTP service.
func NewService(store Store, logger *zap.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, metrics: metrics, random: rand.Reader}
}

// Generate returns a uniformly random code of the given number of digits, zero padded.
func (s *Service) Generate(length int) (string, error) {
	if length <= 0 || length > maxLength {
		length = DefaultLength
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(s.random, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}

// Store saves code for the contact, replacing any previous one.
func (s *Service) Store(ctx context.Context, contact domain.Contact, code string) error {
	if err := s.store.Set(ctx, Key(contact), code, TTL); err != nil {
		return err
	}
	s.metrics.RecordOTP("issued")
	return nil
}

// Verify consumes the stored code when it matches. Store failures count as
// a failed verification.
func (s *Service) Verify(ctx context.Context, contact domain.Contact, submitted string) bool {
	if submitted == "" {
		s.metrics.RecordOTP("rejected")
		return false
	}
	ok, err := s.store.ConsumeIfMatch(ctx, Key(contact), submitted)
	if err != nil {
		s.logger.Error("otp verification failed", zap.String("contact_type", string(contact.Type)), zap.Error(err))
		s.metrics.RecordOTP("error")
		return false
	}
	if !ok {
		s.metrics.RecordOTP("rejected")
		return false
	}
	s.metrics.RecordOTP("verified")
	return true
}
