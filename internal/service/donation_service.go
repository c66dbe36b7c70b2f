package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/events"
	"github.com/spec-kit/institute-service/internal/repository"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

const receiptAttempts = 3

// DonationInput is a donation as submitted. Amount is in cents.
type DonationInput struct {
	Email      string
	FirstName  string
	LastName   string
	Amount     int64
	Address    string
	City       string
	Province   string
	PostalCode string
	Method     string
	Notes      string
}

// DonationResult describes what a donation created.
type DonationResult struct {
	Transaction domain.Transaction
	Donor       domain.Donor
	NewDonor    bool
}

// Message is the confirmation shown to the donor.
func (r DonationResult) Message() string {
	switch {
	case !r.NewDonor:
		return "Transaction created for existing donor."
	case r.Donor.UID != nil:
		return "Transaction and new donor (user) created successfully."
	default:
		return "Transaction and new donor (non-user) created successfully."
	}
}

// NewReceiptNumber formats a receipt as RCPT-YYYYMMDD-xxxxxx.
func NewReceiptNumber(now time.Time) string {
	return fmt.Sprintf("RCPT-%s-%s", now.Format("20060102"), uuid.NewString()[:6])
}

// DonationService records donations and keeps donor totals.
type DonationService struct {
	donations  repository.DonationRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewDonationService builds the service.
func NewDonationService(donations repository.DonationRepository, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *DonationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationService{
		donations:  donations,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Donate records a donation from any email address. When the email belongs to
// a registered user the donor is linked to that account and takes its name.
func (s *DonationService) Donate(ctx context.Context, in DonationInput) (*DonationResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" {
		return nil, apperrors.NewInvalidRequest("EMAIL is required", nil)
	}
	if in.Amount <= 0 {
		return nil, apperrors.NewInvalidRequest("AMOUNT must be greater than zero", nil)
	}

	donor := domain.Donor{Email: in.Email, FirstName: in.FirstName, LastName: in.LastName}
	user, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		uid := user.UID
		donor.UID = &uid
		donor.FirstName, donor.LastName = user.FirstName, user.LastName
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, apperrors.NewInternalError(err)
	}

	txn := domain.Transaction{
		Email:      in.Email,
		Amount:     in.Amount,
		Address:    in.Address,
		City:       in.City,
		Province:   in.Province,
		PostalCode: in.PostalCode,
		Method:     in.Method,
		Notes:      in.Notes,
	}

	var created bool
	for attempt := 1; ; attempt++ {
		txn.ReceiptNumber = NewReceiptNumber(s.now())
		created, err = s.donations.Record(ctx, &donor, &txn)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicate) && attempt < receiptAttempts {
			continue
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("donation recorded",
		zap.Int64("transaction_id", txn.ID),
		zap.Int64("donor_id", donor.ID),
		zap.Bool("new_donor", created),
		zap.String("receipt", txn.ReceiptNumber))

	if s.dispatcher != nil {
		var uid int64
		if donor.UID != nil {
			uid = *donor.UID
		}
		_ = s.dispatcher.Publish(ctx, events.New(events.EventDonationRecorded, uid, events.DonationRecordedPayload{
			TransactionID: txn.ID,
			DonorID:       donor.ID,
			Email:         txn.Email,
			Amount:        txn.Amount,
			ReceiptNumber: txn.ReceiptNumber,
		}))
	}
	return &DonationResult{Transaction: txn, Donor: donor, NewDonor: created}, nil
}

// DonateAs records a donation from a signed-in user, using the account's email.
func (s *DonationService) DonateAs(ctx context.Context, uid int64, in DonationInput) (*DonationResult, error) {
	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, notFoundOr(err, "User")
	}
	in.Email = user.Email
	return s.Donate(ctx, in)
}

func (s *DonationService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.donations.ListTransactions(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return txns, nil
}

func (s *DonationService) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	txn, err := s.donations.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, notFoundOr(err, "Transaction")
	}
	return txn, nil
}

func (s *DonationService) ListDonors(ctx context.Context) ([]domain.Donor, error) {
	donors, err := s.donations.ListDonors(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return donors, nil
}
