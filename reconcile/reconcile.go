// Package reconcile merges the two booking representations (legacy
// appointments and calendar slot bookings) into the legacy appointment
// shape for dashboards and lists.
package reconcile

import (
	"sort"
	"strings"

	"mawid/models"
)

// FromSlot converts a booked calendar slot into the legacy appointment
// shape. The date is re-delimited from "YYYY-MM-DD" to underscore tokens
// and the result is tagged so consumers can branch display logic.
func FromSlot(slot models.CalendarSlot) models.Appointment {
	appt := models.Appointment{
		AppointmentID:     slot.SlotID,
		UserID:            slot.BookedBy,
		ProviderID:        slot.ProviderID,
		SlotDate:          strings.ReplaceAll(slot.Date, "-", "_"),
		SlotTime:          slot.StartTime,
		Amount:            slot.Amount,
		Date:              slot.CreatedAt.UnixMilli(),
		Cancelled:         slot.Cancelled,
		Payment:           slot.Payment,
		IsCompleted:       slot.IsCompleted,
		IsCalendarBooking: true,
	}
	if slot.BookingData != nil {
		appt.UserData = slot.BookingData.UserData
		appt.ProviderData = slot.BookingData.ProviderData
	}
	return appt
}

// Merge unions legacy appointments with transformed slot bookings.
func Merge(appointments []models.Appointment, slots []models.CalendarSlot) []models.Appointment {
	merged := make([]models.Appointment, 0, len(appointments)+len(slots))
	merged = append(merged, appointments...)
	for _, slot := range slots {
		merged = append(merged, FromSlot(slot))
	}
	return merged
}

// Latest sorts by creation time descending and returns the first n.
func Latest(merged []models.Appointment, n int) []models.Appointment {
	sorted := make([]models.Appointment, len(merged))
	copy(sorted, merged)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Earnings sums amounts across completed-or-paid items from both booking
// sources plus event participant final prices.
func Earnings(merged []models.Appointment, events []models.Event) float64 {
	var total float64
	for _, appt := range merged {
		if appt.IsCompleted || appt.Payment {
			total += appt.Amount
		}
	}
	for _, event := range events {
		for _, p := range event.Participants {
			total += p.FinalPrice
		}
	}
	return total
}

// UniqueClients counts distinct booker identifiers across both booking
// sources and event participants.
func UniqueClients(merged []models.Appointment, events []models.Event) int {
	seen := make(map[string]struct{})
	for _, appt := range merged {
		if appt.UserID != "" {
			seen[appt.UserID] = struct{}{}
		}
	}
	for _, event := range events {
		for _, p := range event.Participants {
			if p.UserID != "" {
				seen[p.UserID] = struct{}{}
			}
		}
	}
	return len(seen)
}
