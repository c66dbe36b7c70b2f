package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/service"
)

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

// UserRequest is the profile payload shared by register and update.
// Field names follow the column names clients already send.
type UserRequest struct {
	FirstName   string `json:"FirstName"`
	MiddleName  string `json:"MiddleName"`
	LastName    string `json:"LastName"`
	DOB         string `json:"DOB"`
	Email       string `json:"Email"`
	PhoneNumber string `json:"PhoneNumber"`
	Address     string `json:"Address"`
	City        string `json:"City"`
	Province    string `json:"Province"`
	PostalCode  string `json:"PostalCode"`
}

// RegisterRequest adds the initial password.
type RegisterRequest struct {
	UserRequest
	Password string `json:"Password"`
}

// Input converts the request to registration input.
func (r RegisterRequest) Input(dob *time.Time) service.RegisterInput {
	return service.RegisterInput{
		FirstName:   r.FirstName,
		MiddleName:  r.MiddleName,
		LastName:    r.LastName,
		DOB:         dob,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		City:        r.City,
		Province:    r.Province,
		PostalCode:  r.PostalCode,
		Password:    r.Password,
	}
}

// ParseDOB parses the optional date of birth. Timestamps are accepted and truncated to the date.
func (r UserRequest) ParseDOB() (*time.Time, error) {
	return parseDate(r.DOB)
}

// ApplyTo copies the profile fields onto user.
func (r UserRequest) ApplyTo(user *domain.User, dob *time.Time) {
	user.FirstName = r.FirstName
	user.MiddleName = r.MiddleName
	user.LastName = r.LastName
	user.DOB = dob
	user.Email = strings.TrimSpace(r.Email)
	user.PhoneNumber = r.PhoneNumber
	user.Address = r.Address
	user.City = r.City
	user.Province = r.Province
	user.PostalCode = r.PostalCode
}

// UserResponse never carries the password hash.
type UserResponse struct {
	UID         int64     `json:"UID"`
	FirstName   string    `json:"FirstName"`
	MiddleName  string    `json:"MiddleName,omitempty"`
	LastName    string    `json:"LastName"`
	DOB         string    `json:"DOB,omitempty"`
	Email       string    `json:"Email"`
	PhoneNumber string    `json:"PhoneNumber,omitempty"`
	Address     string    `json:"Address,omitempty"`
	City        string    `json:"City,omitempty"`
	Province    string    `json:"Province,omitempty"`
	PostalCode  string    `json:"PostalCode,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserResponse maps a user for output.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UID:         u.UID,
		FirstName:   u.FirstName,
		MiddleName:  u.MiddleName,
		LastName:    u.LastName,
		DOB:         formatDate(u.DOB),
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		City:        u.City,
		Province:    u.Province,
		PostalCode:  u.PostalCode,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewUserResponses maps a list of users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
