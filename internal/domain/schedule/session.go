package schedule

import (
	"time"

	"github.com/google/uuid"
)

// WorkSession maps to the doctor_work_session table. One row declares that a
// doctor is available for booking on a calendar date during one shift.
type WorkSession struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	WorkDate  Date      `db:"work_date" json:"work_date"`
	WorkShift Shift     `db:"work_shift" json:"work_shift"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StartAt returns the instant the session's shift begins in loc.
func (ws WorkSession) StartAt(loc *time.Location) time.Time {
	return ws.WorkShift.StartOn(ws.WorkDate, loc)
}

// Bookable returns the sub-sequence of sessions whose shift start is strictly
// after now, preserving input order. A session on today's date whose shift has
// already started (or starts exactly now) is excluded; past dates are always
// excluded; future dates are always included.
func Bookable(sessions []WorkSession, now time.Time, loc *time.Location) []WorkSession {
	out := make([]WorkSession, 0, len(sessions))
	for _, ws := range sessions {
		if ws.StartAt(loc).After(now) {
			out = append(out, ws)
		}
	}
	return out
}
