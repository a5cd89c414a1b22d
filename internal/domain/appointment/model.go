package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/schedule"
)

// Status is the appointment lifecycle state. The flow is
// pending -> confirmed -> completed, with cancellation allowed from any
// non-terminal state. completed and canceled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// ParseStatus validates a wire-format status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid appointment status: %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch {
	case s == StatusPending && next == StatusConfirmed:
		return true
	case s == StatusConfirmed && next == StatusCompleted:
		return true
	case !s.Terminal() && next == StatusCanceled:
		return true
	}
	return false
}

var (
	ErrNotFound     = errors.New("appointment not found")
	ErrNotConfirmed = errors.New("appointment is not confirmed")
	ErrNotPending   = errors.New("appointment is not pending")
	ErrTerminal     = errors.New("appointment is in a terminal state")
	ErrNotBookable  = errors.New("work session is no longer bookable")
	ErrNoSession    = errors.New("doctor has no such work session")
)

// Appointment maps to the appointment table. PatientName and DoctorName are
// joined display columns populated on reads, never written.
type Appointment struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	DoctorID      uuid.UUID      `db:"doctor_id" json:"doctor_id"`
	PatientID     uuid.UUID      `db:"patient_id" json:"patient_id"`
	WorkDate      schedule.Date  `db:"work_date" json:"work_date"`
	WorkShift     schedule.Shift `db:"work_shift" json:"work_shift"`
	Status        Status         `db:"status" json:"status"`
	PaymentStatus string         `db:"payment_status" json:"payment_status"`
	Reason        *string        `db:"reason" json:"reason,omitempty"`
	PatientName   string         `db:"patient_name" json:"patient_name,omitempty"`
	DoctorName    string         `db:"doctor_name" json:"doctor_name,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Paid interprets the string-encoded payment flag carried over the wire.
func (a *Appointment) Paid() bool {
	return a.PaymentStatus == "true"
}
