package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/schedule"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// TransitionStatus atomically moves an appointment from one status to
	// another. It returns ErrNotFound when the id does not exist and
	// ErrConflict semantics via (false, nil) when the current status did not
	// match from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	ListBySession(ctx context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift, status Status) ([]*Appointment, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
}
