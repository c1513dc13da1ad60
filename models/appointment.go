package models

// Appointment is a legacy single-slot booking tied to the provider's
// slots_booked map. SlotDate keeps the underscore token exactly as the
// client sent it, day_month_year without padding ("28_8_2025"); calendar
// slot bookings transformed into this shape for merged views carry
// year-first tokens ("2025_08_28") instead.
type Appointment struct {
	AppointmentID     string         `json:"appointmentid" bson:"appointmentid"`
	UserID            string         `json:"userId" bson:"userid"`
	ProviderID        string         `json:"docId" bson:"providerid"`
	SlotDate          string         `json:"slotDate" bson:"slotdate"`
	SlotTime          string         `json:"slotTime" bson:"slottime"`
	UserData          PublicUser     `json:"userData" bson:"userdata"`
	ProviderData      PublicProvider `json:"docData" bson:"providerdata"`
	Amount            float64        `json:"amount" bson:"amount"`
	Date              int64          `json:"date" bson:"date"` // creation time, unix millis
	Cancelled         bool           `json:"cancelled" bson:"cancelled"`
	Payment           bool           `json:"payment" bson:"payment"`
	IsCompleted       bool           `json:"isCompleted" bson:"iscompleted"`
	IsCalendarBooking bool           `json:"isCalendarBooking,omitempty" bson:"-"`
}
