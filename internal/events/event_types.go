package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/institute-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOTPRequested  EventType = "otp_requested"
	EventPasswordReset EventType = "password_reset"
	EventRoleAssigned  EventType = "role_assigned"
	EventRoleRemoved   EventType = "role_removed"

	EventInstructorAssigned EventType = "instructor_assigned"
	EventDonationRecorded   EventType = "donation_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UID       int64       `json:"uid"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh ID and the current time.
func New(eventType EventType, uid int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UID:       uid,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// OTPRequestedPayload carries the code to the delivery channel.
type OTPRequestedPayload struct {
	Contact domain.Contact `json:"contact"`
	Code    string         `json:"-"`
}

// PasswordResetPayload payload.
type PasswordResetPayload struct {
	Contact domain.Contact `json:"contact"`
}

// RoleChangedPayload payload for role assignment and removal.
type RoleChangedPayload struct {
	RoleID  int64 `json:"role_id"`
	ActorID int64 `json:"actor_id"`
}

// InstructorAssignedPayload names the course an instructor was added to.
type InstructorAssignedPayload struct {
	CourseID int64 `json:"course_id"`
	ActorID  int64 `json:"actor_id"`
}

// DonationRecordedPayload carries what a receipt needs.
type DonationRecordedPayload struct {
	TransactionID int64  `json:"transaction_id"`
	DonorID       int64  `json:"donor_id"`
	Email         string `json:"email"`
	Amount        int64  `json:"amount"`
	ReceiptNumber string `json:"receipt_number"`
}
