package domain

import "time"

// User is the domain model for anyone holding an account: students, staff, donors and parents.
type User struct {
	UID          int64
	FirstName    string
	MiddleName   string
	LastName     string
	DOB          *time.Time
	Email        string
	PhoneNumber  string
	Address      string
	City         string
	Province     string
	PostalCode   string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
