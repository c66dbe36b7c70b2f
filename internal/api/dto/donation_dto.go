package dto

import (
	"math"
	"time"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/service"
)

// TransactionRequest is the donation form. AMOUNT is in dollars.
type TransactionRequest struct {
	Email      string  `json:"EMAIL"`
	FirstName  string  `json:"FIRSTNAME"`
	LastName   string  `json:"LASTNAME"`
	Amount     float64 `json:"AMOUNT"`
	Address    string  `json:"ADDRESS"`
	City       string  `json:"CITY"`
	Province   string  `json:"PROVINCE"`
	PostalCode string  `json:"POSTALCODE"`
	Method     string  `json:"METHOD"`
	Notes      string  `json:"NOTES"`
}

// Input converts the form to service input, rounding the amount to cents.
func (r TransactionRequest) Input() service.DonationInput {
	return service.DonationInput{
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Amount:     int64(math.Round(r.Amount * 100)),
		Address:    r.Address,
		City:       r.City,
		Province:   r.Province,
		PostalCode: r.PostalCode,
		Method:     r.Method,
		Notes:      r.Notes,
	}
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}

type TransactionResponse struct {
	TransactionID int64     `json:"TRANSACTION_ID"`
	DonorID       int64     `json:"DONOR_ID"`
	Email         string    `json:"EMAIL"`
	Amount        float64   `json:"AMOUNT"`
	Address       string    `json:"ADDRESS,omitempty"`
	City          string    `json:"CITY,omitempty"`
	Province      string    `json:"PROVINCE,omitempty"`
	PostalCode    string    `json:"POSTALCODE,omitempty"`
	Method        string    `json:"METHOD,omitempty"`
	Notes         string    `json:"NOTES,omitempty"`
	ReceiptNumber string    `json:"RECEIPT_NUMBER"`
	CreatedAt     time.Time `json:"CREATED_AT"`
}

func NewTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.ID,
		DonorID:       t.DonorID,
		Email:         t.Email,
		Amount:        dollars(t.Amount),
		Address:       t.Address,
		City:          t.City,
		Province:      t.Province,
		PostalCode:    t.PostalCode,
		Method:        t.Method,
		Notes:         t.Notes,
		ReceiptNumber: t.ReceiptNumber,
		CreatedAt:     t.CreatedAt,
	}
}

func NewTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, NewTransactionResponse(&txns[i]))
	}
	return out
}

type DonorResponse struct {
	DonorID       int64      `json:"DONOR_ID"`
	UID           *int64     `json:"UID"`
	Email         string     `json:"EMAIL"`
	FirstName     string     `json:"FIRSTNAME,omitempty"`
	LastName      string     `json:"LASTNAME,omitempty"`
	AmountDonated float64    `json:"AMOUNT_DONATED"`
	LastDonation  *time.Time `json:"LAST_DONATION,omitempty"`
}

func NewDonorResponses(donors []domain.Donor) []DonorResponse {
	out := make([]DonorResponse, 0, len(donors))
	for _, d := range donors {
		out = append(out, DonorResponse{
			DonorID:       d.ID,
			UID:           d.UID,
			Email:         d.Email,
			FirstName:     d.FirstName,
			LastName:      d.LastName,
			AmountDonated: dollars(d.AmountDonated),
			LastDonation:  d.LastDonation,
		})
	}
	return out
}

// DonationResponse confirms a recorded donation.
type DonationResponse struct {
	Message       string `json:"message"`
	TransactionID int64  `json:"TRANSACTION_ID"`
	ReceiptNumber string `json:"RECEIPT_NUMBER"`
}

func NewDonationResponse(res *service.DonationResult) DonationResponse {
	return DonationResponse{
		Message:       res.Message(),
		TransactionID: res.Transaction.ID,
		ReceiptNumber: res.Transaction.ReceiptNumber,
	}
}
