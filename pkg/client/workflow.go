package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Appointment statuses as reported by the backend.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

var (
	// ErrUnknownAppointment is returned for ids not present in the local view.
	ErrUnknownAppointment = errors.New("unknown appointment")
	// ErrNotConfirmed is returned when the appointment is not in the
	// confirmed state, the only state the complete action is exposed for.
	ErrNotConfirmed = errors.New("appointment is not confirmed")
	// ErrInFlight is returned when a completion for the same id is already
	// outstanding.
	ErrInFlight = errors.New("completion already in flight")
)

// completer is the remote call the workflow drives.
type completer interface {
	CompleteAppointment(ctx context.Context, id string) error
}

// Workflow tracks a local view of appointments and drives the one exposed
// transition, confirmed -> completed. At most one completion per id is in
// flight at a time; a response that arrives after a newer request for the
// same id took over is dropped rather than applied to the local view.
type Workflow struct {
	mu       sync.Mutex
	remote   completer
	view     map[string]*Appointment
	inflight map[string]uint64
	seq      uint64
	timeout  time.Duration
}

// NewWorkflow creates a workflow around the given remote. The timeout bounds
// each completion call; zero means no bound beyond the caller's context.
func NewWorkflow(remote completer, timeout time.Duration) *Workflow {
	return &Workflow{
		remote:   remote,
		view:     make(map[string]*Appointment),
		inflight: make(map[string]uint64),
		timeout:  timeout,
	}
}

// Load replaces the local view with the given appointments.
func (w *Workflow) Load(appts []Appointment) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = make(map[string]*Appointment, len(appts))
	for i := range appts {
		a := appts[i]
		w.view[a.ID] = &a
	}
}

// Get returns a copy of the local appointment, if known.
func (w *Workflow) Get(id string) (Appointment, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.view[id]
	if !ok {
		return Appointment{}, false
	}
	return *a, true
}

// InFlight reports whether a completion for id is outstanding. Callers use
// it to disable the per-row action control.
func (w *Workflow) InFlight(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.inflight[id]
	return ok
}

// MarkCompleted submits the completion for id. On success the local copy's
// status becomes completed. On failure or timeout the local state is left
// unchanged and the action control re-enables. A second call while one is
// outstanding for the same id returns ErrInFlight without a remote call.
func (w *Workflow) MarkCompleted(ctx context.Context, id string) error {
	w.mu.Lock()
	a, ok := w.view[id]
	if !ok {
		w.mu.Unlock()
		return ErrUnknownAppointment
	}
	if a.Status != StatusConfirmed {
		w.mu.Unlock()
		return ErrNotConfirmed
	}
	if _, busy := w.inflight[id]; busy {
		w.mu.Unlock()
		return ErrInFlight
	}
	w.seq++
	token := w.seq
	w.inflight[id] = token
	w.mu.Unlock()

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	err := w.remote.CompleteAppointment(ctx, id)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight[id] != token {
		// A newer request for this id took over; drop this response.
		return err
	}
	delete(w.inflight, id)

	if err != nil {
		return err
	}
	if a, ok := w.view[id]; ok {
		a.Status = StatusCompleted
	}
	return nil
}
