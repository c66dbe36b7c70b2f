package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
)

// DonationRepository records donations against donors.
type DonationRepository interface {
	// Record upserts the donor by email and inserts the transaction atomically.
	// It reports whether the donor row was created by this call.
	Record(ctx context.Context, donor *domain.Donor, txn *domain.Transaction) (created bool, err error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	ListDonors(ctx context.Context) ([]domain.Donor, error)
}

type donationRepository struct {
	db TxDB
}

// NewDonationRepository returns a Postgres-backed implementation.
func NewDonationRepository(db TxDB) DonationRepository {
	return &donationRepository{db: db}
}

const transactionColumns = `transaction_id, donor_id, email, amount, address, city, province,
        postal_code, method, notes, receipt_number, created_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := row.Scan(
		&t.ID,
		&t.DonorID,
		&t.Email,
		&t.Amount,
		&t.Address,
		&t.City,
		&t.Province,
		&t.PostalCode,
		&t.Method,
		&t.Notes,
		&t.ReceiptNumber,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// upsertDonor adds to an existing donor's total, or creates the donor.
// xmax is zero only for a freshly inserted row.
const upsertDonor = `
        INSERT INTO donors (uid, email, first_name, last_name, amount_donated, last_donation)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT ((lower(email))) DO UPDATE SET
            amount_donated = donors.amount_donated + EXCLUDED.amount_donated,
            last_donation = EXCLUDED.last_donation,
            uid = COALESCE(donors.uid, EXCLUDED.uid)
        RETURNING donor_id, uid, email, first_name, last_name, amount_donated, last_donation, (xmax = 0)`

func (r *donationRepository) Record(ctx context.Context, donor *domain.Donor, txn *domain.Transaction) (bool, error) {
	var created bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, upsertDonor,
			donor.UID,
			donor.Email,
			donor.FirstName,
			donor.LastName,
			txn.Amount,
		).Scan(
			&donor.ID,
			&donor.UID,
			&donor.Email,
			&donor.FirstName,
			&donor.LastName,
			&donor.AmountDonated,
			&donor.LastDonation,
			&created,
		)
		if err != nil {
			return fmt.Errorf("upsert donor: %w", err)
		}

		txn.DonorID = donor.ID
		const insertTxn = `
            INSERT INTO transactions (donor_id, email, amount, address, city, province,
                postal_code, method, notes, receipt_number)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            RETURNING transaction_id, created_at`
		err = tx.QueryRow(ctx, insertTxn,
			txn.DonorID,
			txn.Email,
			txn.Amount,
			txn.Address,
			txn.City,
			txn.Province,
			txn.PostalCode,
			txn.Method,
			txn.Notes,
			txn.ReceiptNumber,
		).Scan(&txn.ID, &txn.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", translateError(err))
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *donationRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (r *donationRepository) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	return scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id=$1`, transactionID))
}

func (r *donationRepository) ListDonors(ctx context.Context) ([]domain.Donor, error) {
	const query = `
        SELECT donor_id, uid, email, first_name, last_name, amount_donated, last_donation
        FROM donors
        ORDER BY donor_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donors := make([]domain.Donor, 0)
	for rows.Next() {
		var d domain.Donor
		if err := rows.Scan(&d.ID, &d.UID, &d.Email, &d.FirstName, &d.LastName, &d.AmountDonated, &d.LastDonation); err != nil {
			return nil, err
		}
		donors = append(donors, d)
	}
	return donors, rows.Err()
}
