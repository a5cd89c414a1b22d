package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/schedule"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)

	AddWorkSession(ctx context.Context, ws *schedule.WorkSession) error
	ListWorkSessions(ctx context.Context, doctorID uuid.UUID) ([]schedule.WorkSession, error)
	RemoveWorkSession(ctx context.Context, doctorID, sessionID uuid.UUID) error
	HasWorkSession(ctx context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift) (bool, error)
}
