package events

import (
	"testing"
	"time"
)

func TestValidateDates(t *testing.T) {
	now := time.Now()
	base := eventForm{
		StartDate:            now.Add(48 * time.Hour),
		EndDate:              now.Add(72 * time.Hour),
		RegistrationDeadline: now.Add(24 * time.Hour),
	}

	if msg := validateDates(base); msg != "" {
		t.Fatalf("valid form rejected: %s", msg)
	}

	past := base
	past.StartDate = now.Add(-time.Hour)
	if msg := validateDates(past); msg != "Start date must be in the future" {
		t.Errorf("past start: got %q", msg)
	}

	inverted := base
	inverted.EndDate = base.StartDate.Add(-time.Hour)
	if msg := validateDates(inverted); msg != "End date must be after start date" {
		t.Errorf("inverted range: got %q", msg)
	}

	lateDeadline := base
	lateDeadline.RegistrationDeadline = base.StartDate.Add(time.Hour)
	if msg := validateDates(lateDeadline); msg != "Registration deadline must be before start date" {
		t.Errorf("late deadline: got %q", msg)
	}
}
