package schedule

import (
	"fmt"
	"time"
)

// Shift identifies one of the two bookable blocks of a working day.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
)

// Nominal shift start clocks. The hospital runs fixed consultation blocks:
// morning starts at 07:30, afternoon at 13:30.
const (
	morningStartHour   = 7
	morningStartMinute = 30

	afternoonStartHour   = 13
	afternoonStartMinute = 30
)

// ParseShift validates a wire-format shift value.
func ParseShift(s string) (Shift, error) {
	switch Shift(s) {
	case ShiftMorning, ShiftAfternoon:
		return Shift(s), nil
	}
	return "", fmt.Errorf("invalid work shift: %q", s)
}

// Valid reports whether the shift is one of the known values.
func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftAfternoon
}

func (s Shift) String() string { return string(s) }

// StartClock returns the nominal wall-clock start of the shift.
func (s Shift) StartClock() (hour, minute int) {
	if s == ShiftAfternoon {
		return afternoonStartHour, afternoonStartMinute
	}
	return morningStartHour, morningStartMinute
}

// StartOn returns the instant the shift begins on the given calendar date
// in the given location.
func (s Shift) StartOn(date Date, loc *time.Location) time.Time {
	h, m := s.StartClock()
	y, mo, d := date.Time.Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc)
}
