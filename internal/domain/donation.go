package domain

import "time"

// Donor accumulates every donation made from one email address.
// UID is set when the email belongs to a registered user.
type Donor struct {
	ID            int64
	UID           *int64
	Email         string
	FirstName     string
	LastName      string
	AmountDonated int64 // cents
	LastDonation  *time.Time
}

// Transaction is a single donation with its receipt.
type Transaction struct {
	ID            int64
	DonorID       int64
	Email         string
	Amount        int64 // cents
	Address       string
	City          string
	Province      string
	PostalCode    string
	Method        string
	Notes         string
	ReceiptNumber string
	CreatedAt     time.Time
}
