package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/repository"
)

var _ repository.DonationRepository = (*DonationRepository)(nil)

// DonationRepository keeps donors and transactions in memory.
type DonationRepository struct {
	mu      sync.Mutex
	nextTID int64
	nextDID int64
	donors  map[int64]*domain.Donor
	txns    map[int64]*domain.Transaction

	// FailTransactions makes Record fail after the donor step, leaving no trace,
	// as a rolled back database transaction would.
	FailTransactions error
}

// NewDonationRepository returns an empty repository.
func NewDonationRepository() *DonationRepository {
	return &DonationRepository{
		nextTID: 1,
		nextDID: 1,
		donors:  make(map[int64]*domain.Donor),
		txns:    make(map[int64]*domain.Transaction),
	}
}

func (r *DonationRepository) Record(_ context.Context, donor *domain.Donor, txn *domain.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.txns {
		if t.ReceiptNumber == txn.ReceiptNumber {
			return false, repository.ErrDuplicate
		}
	}

	var existing *domain.Donor
	for _, d := range r.donors {
		if strings.EqualFold(d.Email, donor.Email) {
			existing = d
			break
		}
	}
	if r.FailTransactions != nil {
		return false, r.FailTransactions
	}

	now := time.Now()
	created := existing == nil
	if created {
		d := *donor
		d.ID = r.nextDID
		r.nextDID++
		d.AmountDonated = txn.Amount
		existing = &d
		r.donors[d.ID] = existing
	} else {
		existing.AmountDonated += txn.Amount
		if existing.UID == nil {
			existing.UID = donor.UID
		}
	}
	existing.LastDonation = &now
	*donor = *existing

	txn.ID = r.nextTID
	r.nextTID++
	txn.DonorID = existing.ID
	txn.CreatedAt = now
	cp := *txn
	r.txns[txn.ID] = &cp
	return created, nil
}

func (r *DonationRepository) ListTransactions(context.Context) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Transaction, 0, len(r.txns))
	for _, t := range r.txns {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DonationRepository) GetTransaction(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.txns[transactionID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *DonationRepository) ListDonors(context.Context) ([]domain.Donor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Donor, 0, len(r.donors))
	for _, d := range r.donors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
