package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/schedule"
)

// SessionDirectory answers whether a doctor has declared a work session.
// Implemented by the doctor service.
type SessionDirectory interface {
	HasSession(ctx context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift) (bool, error)
}

type Service struct {
	repo     Repository
	sessions SessionDirectory
	loc      *time.Location
	now      func() time.Time
}

func NewService(repo Repository, sessions SessionDirectory, loc *time.Location) *Service {
	return &Service{repo: repo, sessions: sessions, loc: loc, now: time.Now}
}

// Book creates a pending appointment against one of the doctor's declared
// work sessions. Sessions whose shift already started are rejected.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.WorkDate.IsZero() {
		return fmt.Errorf("work_date is required")
	}
	if !a.WorkShift.Valid() {
		return fmt.Errorf("invalid work shift: %q", a.WorkShift)
	}

	declared, err := s.sessions.HasSession(ctx, a.DoctorID, a.WorkDate, a.WorkShift)
	if err != nil {
		return err
	}
	if !declared {
		return ErrNoSession
	}
	if !a.WorkShift.StartOn(a.WorkDate, s.loc).After(s.now()) {
		return ErrNotBookable
	}

	a.Status = StatusPending
	if a.PaymentStatus == "" {
		a.PaymentStatus = "false"
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// AdminUpdate overwrites the mutable appointment fields from the admin
// console. The admin may set any valid status; lifecycle ordering is not
// enforced here, matching the original console's behavior.
func (s *Service) AdminUpdate(ctx context.Context, a *Appointment) error {
	if !a.WorkShift.Valid() {
		return fmt.Errorf("invalid work shift: %q", a.WorkShift)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("invalid appointment status: %q", a.Status)
	}
	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = current.PaymentStatus
	}
	return s.repo.Update(ctx, a)
}

// Confirm moves a pending appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.TransitionStatus(ctx, id, StatusPending, StatusConfirmed)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPending
	}
	return nil
}

// Complete moves a confirmed appointment to completed. Completing an
// appointment in any other state, including one already completed, is a
// reported no-op error.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.TransitionStatus(ctx, id, StatusConfirmed, StatusCompleted)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}

// Cancel moves a non-terminal appointment to canceled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status.Terminal() {
		return ErrTerminal
	}
	ok, err := s.repo.TransitionStatus(ctx, id, current.Status, StatusCanceled)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with another transition; re-read to report accurately.
		return ErrTerminal
	}
	return nil
}

// ConfirmedForSession lists the confirmed appointments of one doctor for one
// work session, in booking order.
func (s *Service) ConfirmedForSession(ctx context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift) ([]*Appointment, error) {
	if !shift.Valid() {
		return nil, fmt.Errorf("invalid work shift: %q", shift)
	}
	return s.repo.ListBySession(ctx, doctorID, date, shift, StatusConfirmed)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
