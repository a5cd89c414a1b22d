package appointment

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "canceled"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q): unexpected error: %v", s, err)
		}
	}
	for _, s := range []string{"", "cancelled", "done", "PENDING"} {
		if _, err := ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q): expected error", s)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusConfirmed.Terminal() {
		t.Error("pending and confirmed are not terminal")
	}
	if !StatusCompleted.Terminal() || !StatusCanceled.Terminal() {
		t.Error("completed and canceled are terminal")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusPending, StatusCanceled, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusPending, StatusCompleted, false},
		{StatusCompleted, StatusCanceled, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusConfirmed, StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPaid(t *testing.T) {
	a := &Appointment{PaymentStatus: "true"}
	if !a.Paid() {
		t.Error("expected paid")
	}
	for _, v := range []string{"false", "", "TRUE", "1"} {
		a.PaymentStatus = v
		if a.Paid() {
			t.Errorf("payment_status %q should not read as paid", v)
		}
	}
}
