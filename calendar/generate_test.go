package calendar

import (
	"testing"
	"time"

	"mawid/models"
)

func dayOn(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		t.Fatalf("parse %s: %v", date, err)
	}
	return d
}

func configWith(duration int, days []int, start, end string, breaks []models.BreakTime) models.CalendarConfig {
	return models.CalendarConfig{
		ProviderID:      "p000000000001",
		DefaultDuration: duration,
		WorkingDays:     days,
		WorkingHours:    models.WorkingHours{Start: start, End: end},
		BreakTimes:      breaks,
	}
}

func startTimes(slots []models.CalendarSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func TestExpandDayTwoHourWindow(t *testing.T) {
	// 2025-09-01 is a Monday.
	cfg := configWith(60, []int{1}, "09:00", "11:00", nil)
	slots := ExpandDay(cfg, dayOn(t, "2025-09-01"))

	got := startTimes(slots)
	want := []string{"09:00", "10:00"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if slots[0].EndTime != "10:00" || slots[1].EndTime != "11:00" {
		t.Errorf("end times wrong: %s, %s", slots[0].EndTime, slots[1].EndTime)
	}
}

func TestExpandDayNonWorkingDay(t *testing.T) {
	// 2025-09-07 is a Sunday, not in the working set.
	cfg := configWith(60, []int{1, 2, 3, 4, 5}, "09:00", "17:00", nil)
	if slots := ExpandDay(cfg, dayOn(t, "2025-09-07")); slots != nil {
		t.Fatalf("expected nil for non-working day, got %d slots", len(slots))
	}
}

func TestExpandDayBreakSwallowsWindow(t *testing.T) {
	// A break straddling both candidate hours kills every slot.
	cfg := configWith(60, []int{1}, "09:00", "11:00",
		[]models.BreakTime{{Start: "09:30", End: "10:30"}})
	if slots := ExpandDay(cfg, dayOn(t, "2025-09-01")); len(slots) != 0 {
		t.Fatalf("expected 0 slots, got %v", startTimes(slots))
	}
}

func TestExpandDayBackToBackBreak(t *testing.T) {
	// Half-open intervals: a break ending exactly at a slot start does not
	// block that slot.
	cfg := configWith(60, []int{1}, "09:00", "12:00",
		[]models.BreakTime{{Start: "09:00", End: "10:00"}})
	got := startTimes(ExpandDay(cfg, dayOn(t, "2025-09-01")))
	want := []string{"10:00", "11:00"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandDayPartialSlotDropped(t *testing.T) {
	// 90 minute slots in a 2 hour window: the second slot would overflow
	// the working end and is dropped.
	cfg := configWith(90, []int{1}, "09:00", "11:00", nil)
	got := startTimes(ExpandDay(cfg, dayOn(t, "2025-09-01")))
	if len(got) != 1 || got[0] != "09:00" {
		t.Fatalf("got %v, want [09:00]", got)
	}
}

func TestExpandDaySlotsStayInsideWindow(t *testing.T) {
	cfg := configWith(45, []int{1}, "08:15", "17:00",
		[]models.BreakTime{{Start: "12:00", End: "13:00"}})
	day := dayOn(t, "2025-09-01")

	for _, slot := range ExpandDay(cfg, day) {
		start, ok := clockAt(slot.Date, slot.StartTime)
		if !ok {
			t.Fatalf("bad start time %q", slot.StartTime)
		}
		end, ok := clockAt(slot.Date, slot.EndTime)
		if !ok {
			t.Fatalf("bad end time %q", slot.EndTime)
		}
		workStart, _ := clockAt(slot.Date, cfg.WorkingHours.Start)
		workEnd, _ := clockAt(slot.Date, cfg.WorkingHours.End)
		if start.Before(workStart) || end.After(workEnd) {
			t.Errorf("slot %s-%s escapes working hours", slot.StartTime, slot.EndTime)
		}
		if overlapsBreak(start, end, slot.Date, cfg.BreakTimes) {
			t.Errorf("slot %s-%s overlaps a break", slot.StartTime, slot.EndTime)
		}
		if !end.Equal(start.Add(45 * time.Minute)) {
			t.Errorf("slot %s-%s is not 45 minutes", slot.StartTime, slot.EndTime)
		}
	}
}

func TestWithoutBookedPreservesBookedTimes(t *testing.T) {
	// Regeneration skips candidates whose start time holds a booking; the
	// booked slot survives untouched.
	cfg := configWith(60, []int{1}, "09:00", "11:00", nil)
	candidates := ExpandDay(cfg, dayOn(t, "2025-09-01"))

	got := startTimes(withoutBooked(candidates, map[string]struct{}{"09:00": {}}))
	if len(got) != 1 || got[0] != "10:00" {
		t.Fatalf("got %v, want [10:00]", got)
	}

	// With nothing booked every candidate passes through.
	if got := withoutBooked(candidates, nil); len(got) != len(candidates) {
		t.Fatalf("got %d candidates, want %d", len(got), len(candidates))
	}
}

func TestBookedSlotFilterSkipsCancelled(t *testing.T) {
	// Cancelled bookings are history rows; their times must be offered
	// again on the next regeneration.
	f := bookedSlotFilter("p000000000001", "2025-09-01")
	if f["isbooked"] != true {
		t.Errorf("filter must match booked slots: %v", f)
	}
	if f["cancelled"] != false {
		t.Errorf("filter must exclude cancelled slots: %v", f)
	}
}

func TestBookableFilterShape(t *testing.T) {
	f := bookableFilter("slot1")
	if f["slotid"] != "slot1" {
		t.Errorf("missing slot id: %v", f)
	}
	if f["isactive"] != true || f["isbooked"] != false || f["cancelled"] != false {
		t.Errorf("reservation must only match open active slots: %v", f)
	}
}

func TestClockAtRejectsGarbage(t *testing.T) {
	if _, ok := clockAt("2025-09-01", "9am"); ok {
		t.Fatal("expected failure for non HH:MM input")
	}
	if _, ok := clockAt("not-a-date", "09:00"); ok {
		t.Fatal("expected failure for bad date")
	}
}
