package reconcile

import (
	"testing"
	"time"

	"mawid/models"
)

func bookedSlot(id, userID string, created time.Time) models.CalendarSlot {
	return models.CalendarSlot{
		SlotID:     id,
		ProviderID: "p000000000001",
		Date:       "2025-09-01",
		StartTime:  "10:00",
		EndTime:    "11:00",
		IsBooked:   true,
		BookedBy:   userID,
		BookingData: &models.BookingSnapshot{
			UserData:     models.PublicUser{Name: "Lina"},
			ProviderData: models.PublicProvider{Name: "Dr. Amal"},
			BookedAt:     created,
		},
		Amount:    200,
		CreatedAt: created,
	}
}

func TestFromSlotTransform(t *testing.T) {
	created := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	appt := FromSlot(bookedSlot("slot1", "u1", created))

	if appt.AppointmentID != "slot1" {
		t.Errorf("appointment id: got %s", appt.AppointmentID)
	}
	if appt.SlotDate != "2025_09_01" {
		t.Errorf("slot date: got %s, want 2025_09_01", appt.SlotDate)
	}
	if appt.SlotTime != "10:00" {
		t.Errorf("slot time: got %s", appt.SlotTime)
	}
	if appt.Date != created.UnixMilli() {
		t.Errorf("date: got %d, want %d", appt.Date, created.UnixMilli())
	}
	if !appt.IsCalendarBooking {
		t.Error("expected calendar booking flag")
	}
	if appt.UserData.Name != "Lina" || appt.ProviderData.Name != "Dr. Amal" {
		t.Error("snapshot not carried over")
	}
}

func TestFromSlotWithoutSnapshot(t *testing.T) {
	slot := bookedSlot("slot2", "u1", time.Now())
	slot.BookingData = nil
	appt := FromSlot(slot)
	if appt.UserData.Name != "" || appt.ProviderData.Name != "" {
		t.Error("expected zero snapshot data")
	}
}

func TestLatestOrdersAndTruncates(t *testing.T) {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	appointments := []models.Appointment{
		{AppointmentID: "a1", Date: base.UnixMilli()},
		{AppointmentID: "a2", Date: base.Add(2 * time.Hour).UnixMilli()},
	}
	slots := []models.CalendarSlot{
		bookedSlot("s1", "u1", base.Add(1*time.Hour)),
		bookedSlot("s2", "u2", base.Add(3*time.Hour)),
	}

	latest := Latest(Merge(appointments, slots), 3)
	if len(latest) != 3 {
		t.Fatalf("got %d items, want 3", len(latest))
	}
	want := []string{"s2", "a2", "s1"}
	for i, id := range want {
		if latest[i].AppointmentID != id {
			t.Errorf("position %d: got %s, want %s", i, latest[i].AppointmentID, id)
		}
	}
}

func TestEarnings(t *testing.T) {
	merged := []models.Appointment{
		{Amount: 100, IsCompleted: true},
		{Amount: 50, Payment: true},
		{Amount: 75}, // neither completed nor paid
	}
	events := []models.Event{
		{Participants: []models.Participant{
			{UserID: "u1", FinalPrice: 30},
			{UserID: "u2", FinalPrice: 0}, // free via promo
		}},
	}

	if got := Earnings(merged, events); got != 180 {
		t.Fatalf("earnings: got %v, want 180", got)
	}
}

func TestUniqueClients(t *testing.T) {
	merged := []models.Appointment{
		{UserID: "u1"},
		{UserID: "u2"},
		{UserID: "u1"},
		{UserID: ""},
	}
	events := []models.Event{
		{Participants: []models.Participant{{UserID: "u2"}, {UserID: "u3"}}},
	}

	if got := UniqueClients(merged, events); got != 3 {
		t.Fatalf("unique clients: got %d, want 3", got)
	}
}
