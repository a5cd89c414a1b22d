package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeRemote lets tests hold a completion call open until released.
type fakeRemote struct {
	mu      sync.Mutex
	calls   int
	err     error
	release chan struct{}
}

func (f *fakeRemote) CompleteAppointment(ctx context.Context, id string) error {
	f.mu.Lock()
	f.calls++
	release := f.release
	err := f.err
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func confirmedView(ids ...string) []Appointment {
	appts := make([]Appointment, 0, len(ids))
	for _, id := range ids {
		appts = append(appts, Appointment{ID: id, Status: StatusConfirmed})
	}
	return appts
}

func TestMarkCompleted_Success(t *testing.T) {
	remote := &fakeRemote{}
	w := NewWorkflow(remote, 0)
	w.Load(confirmedView("a1"))

	if err := w.MarkCompleted(context.Background(), "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := w.Get("a1")
	if a.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", a.Status)
	}

	// Already completed: the action is no longer exposed.
	if err := w.MarkCompleted(context.Background(), "a1"); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed on repeat, got %v", err)
	}
	if remote.callCount() != 1 {
		t.Errorf("expected 1 remote call, got %d", remote.callCount())
	}
}

func TestMarkCompleted_UnknownID(t *testing.T) {
	w := NewWorkflow(&fakeRemote{}, 0)
	if err := w.MarkCompleted(context.Background(), "nope"); !errors.Is(err, ErrUnknownAppointment) {
		t.Errorf("expected ErrUnknownAppointment, got %v", err)
	}
}

func TestMarkCompleted_NotConfirmed(t *testing.T) {
	w := NewWorkflow(&fakeRemote{}, 0)
	w.Load([]Appointment{{ID: "a1", Status: StatusPending}})
	if err := w.MarkCompleted(context.Background(), "a1"); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestMarkCompleted_FailureLeavesStateUnchanged(t *testing.T) {
	remote := &fakeRemote{err: errors.New("backend down")}
	w := NewWorkflow(remote, 0)
	w.Load(confirmedView("a1"))

	if err := w.MarkCompleted(context.Background(), "a1"); err == nil {
		t.Fatal("expected error")
	}
	a, _ := w.Get("a1")
	if a.Status != StatusConfirmed {
		t.Errorf("failure must not mutate local state, got %s", a.Status)
	}
	if w.InFlight("a1") {
		t.Error("in-flight flag must clear on failure")
	}
	// The action re-enables: a retry reaches the remote again.
	w.MarkCompleted(context.Background(), "a1")
	if remote.callCount() != 2 {
		t.Errorf("expected retry to reach remote, calls=%d", remote.callCount())
	}
}

func TestMarkCompleted_SecondCallWhileInFlight(t *testing.T) {
	remote := &fakeRemote{release: make(chan struct{})}
	w := NewWorkflow(remote, 0)
	w.Load(confirmedView("a1"))

	done := make(chan error, 1)
	go func() { done <- w.MarkCompleted(context.Background(), "a1") }()

	// Wait until the first call is in flight.
	deadline := time.After(time.Second)
	for !w.InFlight("a1") {
		select {
		case <-deadline:
			t.Fatal("first call never became in-flight")
		case <-time.After(time.Millisecond):
		}
	}

	if err := w.MarkCompleted(context.Background(), "a1"); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}

	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if remote.callCount() != 1 {
		t.Errorf("expected exactly 1 remote call, got %d", remote.callCount())
	}
	a, _ := w.Get("a1")
	if a.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", a.Status)
	}
}

func TestMarkCompleted_IndependentIDs(t *testing.T) {
	remote := &fakeRemote{release: make(chan struct{})}
	w := NewWorkflow(remote, 0)
	w.Load(confirmedView("a1", "a2"))

	done := make(chan error, 1)
	go func() { done <- w.MarkCompleted(context.Background(), "a1") }()

	deadline := time.After(time.Second)
	for !w.InFlight("a1") {
		select {
		case <-deadline:
			t.Fatal("first call never became in-flight")
		case <-time.After(time.Millisecond):
		}
	}

	// a2 is not blocked by a1's outstanding call.
	if w.InFlight("a2") {
		t.Error("a2 must not be in flight")
	}

	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("a1 completion failed: %v", err)
	}
	if err := w.MarkCompleted(context.Background(), "a2"); err != nil {
		t.Fatalf("a2 completion failed: %v", err)
	}
}

func TestMarkCompleted_Timeout(t *testing.T) {
	remote := &fakeRemote{release: make(chan struct{})} // never released
	w := NewWorkflow(remote, 20*time.Millisecond)
	w.Load(confirmedView("a1"))

	err := w.MarkCompleted(context.Background(), "a1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	a, _ := w.Get("a1")
	if a.Status != StatusConfirmed {
		t.Errorf("timeout must not mutate local state, got %s", a.Status)
	}
	if w.InFlight("a1") {
		t.Error("in-flight flag must clear on timeout")
	}
}

func TestLoad_ReplacesView(t *testing.T) {
	w := NewWorkflow(&fakeRemote{}, 0)
	w.Load(confirmedView("a1"))
	w.Load(confirmedView("a2"))

	if _, ok := w.Get("a1"); ok {
		t.Error("a1 should be gone after reload")
	}
	if _, ok := w.Get("a2"); !ok {
		t.Error("a2 should be present")
	}
}
