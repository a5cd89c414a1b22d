package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/schedule"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}
	d.Active = true
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) AddWorkSession(ctx context.Context, ws *schedule.WorkSession) error {
	if ws.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if ws.WorkDate.IsZero() {
		return fmt.Errorf("work_date is required")
	}
	if !ws.WorkShift.Valid() {
		return fmt.Errorf("invalid work shift: %q", ws.WorkShift)
	}
	if _, err := s.repo.GetByID(ctx, ws.DoctorID); err != nil {
		return err
	}
	return s.repo.AddWorkSession(ctx, ws)
}

// WorkSessions lists a doctor's declared sessions. With bookableOnly set,
// sessions whose shift already started are filtered out.
func (s *Service) WorkSessions(ctx context.Context, doctorID uuid.UUID, bookableOnly bool) ([]schedule.WorkSession, error) {
	sessions, err := s.repo.ListWorkSessions(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if bookableOnly {
		sessions = schedule.Bookable(sessions, s.now(), s.loc)
	}
	return sessions, nil
}

func (s *Service) RemoveWorkSession(ctx context.Context, doctorID, sessionID uuid.UUID) error {
	return s.repo.RemoveWorkSession(ctx, doctorID, sessionID)
}

// HasSession implements the appointment package's SessionDirectory.
func (s *Service) HasSession(ctx context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift) (bool, error) {
	return s.repo.HasWorkSession(ctx, doctorID, date, shift)
}
