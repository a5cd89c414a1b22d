package appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/schedule"
)

// -- Mocks --

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return ErrNotFound
	}
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to Status) (bool, error) {
	a, ok := m.appts[id]
	if !ok {
		return false, ErrNotFound
	}
	if a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (m *mockRepo) ListBySession(_ context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift, status Status) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.DoctorID == doctorID && a.WorkDate.Equal(date) && a.WorkShift == shift && a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if name, ok := params["patient_name"]; ok {
			if !strings.Contains(strings.ToLower(a.PatientName), strings.ToLower(name)) {
				continue
			}
		}
		if status, ok := params["status"]; ok && string(a.Status) != status {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

type mockSessions struct {
	declared map[string]bool
}

func sessKey(doctorID uuid.UUID, date schedule.Date, shift schedule.Shift) string {
	return doctorID.String() + "|" + date.String() + "|" + shift.String()
}

func (m *mockSessions) HasSession(_ context.Context, doctorID uuid.UUID, date schedule.Date, shift schedule.Shift) (bool, error) {
	return m.declared[sessKey(doctorID, date, shift)], nil
}

func newTestService() (*Service, *mockRepo, *mockSessions) {
	repo := newMockRepo()
	sessions := &mockSessions{declared: make(map[string]bool)}
	svc := NewService(repo, sessions, time.UTC)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo, sessions
}

func date(t *testing.T, s string) schedule.Date {
	t.Helper()
	d, err := schedule.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return d
}

// -- Booking --

func TestBook(t *testing.T) {
	svc, _, sessions := newTestService()
	a := &Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		WorkDate:  date(t, "2025-06-02"),
		WorkShift: schedule.ShiftMorning,
	}
	sessions.declared[sessKey(a.DoctorID, a.WorkDate, a.WorkShift)] = true

	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("expected pending, got %s", a.Status)
	}
	if a.PaymentStatus != "false" {
		t.Errorf("expected default payment_status \"false\", got %q", a.PaymentStatus)
	}
}

func TestBook_SessionNotDeclared(t *testing.T) {
	svc, _, _ := newTestService()
	a := &Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		WorkDate:  date(t, "2025-06-02"),
		WorkShift: schedule.ShiftMorning,
	}
	if err := svc.Book(context.Background(), a); err != ErrNoSession {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestBook_SessionAlreadyStarted(t *testing.T) {
	svc, _, sessions := newTestService()
	// now is 2025-06-01 12:00 UTC; same-day morning shift started 07:30.
	a := &Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		WorkDate:  date(t, "2025-06-01"),
		WorkShift: schedule.ShiftMorning,
	}
	sessions.declared[sessKey(a.DoctorID, a.WorkDate, a.WorkShift)] = true
	if err := svc.Book(context.Background(), a); err != ErrNotBookable {
		t.Errorf("expected ErrNotBookable, got %v", err)
	}
}

func TestBook_SameDayAfternoonStillOpen(t *testing.T) {
	svc, _, sessions := newTestService()
	a := &Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		WorkDate:  date(t, "2025-06-01"),
		WorkShift: schedule.ShiftAfternoon,
	}
	sessions.declared[sessKey(a.DoctorID, a.WorkDate, a.WorkShift)] = true
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBook_MissingFields(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []*Appointment{
		{PatientID: uuid.New(), WorkDate: date(t, "2025-06-02"), WorkShift: schedule.ShiftMorning},
		{DoctorID: uuid.New(), WorkDate: date(t, "2025-06-02"), WorkShift: schedule.ShiftMorning},
		{DoctorID: uuid.New(), PatientID: uuid.New(), WorkShift: schedule.ShiftMorning},
		{DoctorID: uuid.New(), PatientID: uuid.New(), WorkDate: date(t, "2025-06-02"), WorkShift: "night"},
	}
	for i, a := range cases {
		if err := svc.Book(context.Background(), a); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

// -- Transitions --

func confirmed(t *testing.T, svc *Service, repo *mockRepo) *Appointment {
	t.Helper()
	a := &Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		WorkDate:  date(t, "2025-06-02"),
		WorkShift: schedule.ShiftMorning,
		Status:    StatusConfirmed,
	}
	repo.Create(context.Background(), a)
	return a
}

func TestComplete(t *testing.T) {
	svc, repo, _ := newTestService()
	a := confirmed(t, svc, repo)

	if err := svc.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), a.ID)
	if got.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}

	// Completing again is a reported no-op error.
	if err := svc.Complete(context.Background(), a.ID); err != ErrNotConfirmed {
		t.Errorf("expected ErrNotConfirmed on repeat, got %v", err)
	}
}

func TestComplete_NotConfirmed(t *testing.T) {
	svc, repo, _ := newTestService()
	a := &Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		WorkDate:  date(t, "2025-06-02"),
		WorkShift: schedule.ShiftMorning,
		Status:    StatusPending,
	}
	repo.Create(context.Background(), a)
	if err := svc.Complete(context.Background(), a.ID); err != ErrNotConfirmed {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestComplete_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Complete(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirm(t *testing.T) {
	svc, repo, _ := newTestService()
	a := &Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		WorkDate:  date(t, "2025-06-02"),
		WorkShift: schedule.ShiftMorning,
		Status:    StatusPending,
	}
	repo.Create(context.Background(), a)
	if err := svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Confirm(context.Background(), a.ID); err != ErrNotPending {
		t.Errorf("expected ErrNotPending on repeat, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, repo, _ := newTestService()
	a := confirmed(t, svc, repo)
	if err := svc.Cancel(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), a.ID)
	if got.Status != StatusCanceled {
		t.Errorf("expected canceled, got %s", got.Status)
	}
}

func TestCancel_Terminal(t *testing.T) {
	svc, repo, _ := newTestService()
	a := confirmed(t, svc, repo)
	svc.Complete(context.Background(), a.ID)
	if err := svc.Cancel(context.Background(), a.ID); err != ErrTerminal {
		t.Errorf("expected ErrTerminal, got %v", err)
	}
}

// -- Queries --

func TestConfirmedForSession(t *testing.T) {
	svc, repo, _ := newTestService()
	doctorID := uuid.New()
	d := date(t, "2025-06-02")

	for _, st := range []Status{StatusConfirmed, StatusPending, StatusConfirmed} {
		repo.Create(context.Background(), &Appointment{
			DoctorID:  doctorID,
			PatientID: uuid.New(),
			WorkDate:  d,
			WorkShift: schedule.ShiftMorning,
			Status:    st,
		})
	}

	items, err := svc.ConfirmedForSession(context.Background(), doctorID, d, schedule.ShiftMorning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 confirmed appointments, got %d", len(items))
	}
}

func TestConfirmedForSession_InvalidShift(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ConfirmedForSession(context.Background(), uuid.New(), date(t, "2025-06-02"), "night"); err == nil {
		t.Error("expected error for invalid shift")
	}
}

func TestSearch_PatientNameCaseInsensitive(t *testing.T) {
	svc, repo, _ := newTestService()
	for _, name := range []string{"Nguyen Van An", "Tran Thi Binh"} {
		a := &Appointment{
			DoctorID:    uuid.New(),
			PatientID:   uuid.New(),
			WorkDate:    date(t, "2025-06-02"),
			WorkShift:   schedule.ShiftMorning,
			Status:      StatusPending,
			PatientName: name,
		}
		repo.Create(context.Background(), a)
	}

	items, _, err := svc.Search(context.Background(), map[string]string{"patient_name": "nguyen"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 match, got %d", len(items))
	}
	if items[0].PatientName != "Nguyen Van An" {
		t.Errorf("unexpected match: %s", items[0].PatientName)
	}
}

func TestAdminUpdate_InvalidStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	a := confirmed(t, svc, repo)
	a.Status = "done"
	if err := svc.AdminUpdate(context.Background(), a); err == nil {
		t.Error("expected error for invalid status")
	}
}
