package models

import "time"

type WorkingHours struct {
	Start string `json:"start" bson:"start"` // "HH:MM"
	End   string `json:"end" bson:"end"`
}

type BreakTime struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// CalendarConfig is the weekly availability template, one per provider.
// Created lazily with these defaults on first read.
type CalendarConfig struct {
	ProviderID      string       `json:"providerid" bson:"providerid"`
	DefaultDuration int          `json:"defaultDuration" bson:"defaultduration"` // minutes
	WorkingDays     []int        `json:"workingDays" bson:"workingdays"`         // 0=Sun..6=Sat
	WorkingHours    WorkingHours `json:"workingHours" bson:"workinghours"`
	BreakTimes      []BreakTime  `json:"breakTimes" bson:"breaktimes"`
	CreatedAt       time.Time    `json:"createdAt" bson:"createdat"`
	UpdatedAt       time.Time    `json:"updatedAt" bson:"updatedat"`
}

func DefaultCalendarConfig(providerID string) CalendarConfig {
	now := time.Now()
	return CalendarConfig{
		ProviderID:      providerID,
		DefaultDuration: 60,
		WorkingDays:     []int{1, 2, 3, 4, 5},
		WorkingHours:    WorkingHours{Start: "09:00", End: "17:00"},
		BreakTimes:      []BreakTime{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// BookingSnapshot freezes the public user/provider fields at booking time
// so later profile edits do not rewrite booking history.
type BookingSnapshot struct {
	UserData     PublicUser     `json:"userData" bson:"userdata"`
	ProviderData PublicProvider `json:"providerData" bson:"providerdata"`
	BookedAt     time.Time      `json:"bookedAt" bson:"bookedat"`
}

// CalendarSlot is one bookable half-open interval [StartTime, EndTime) on
// a calendar date. Once booked it never reverts to unbooked, except when a
// pending reservation expires unpaid.
type CalendarSlot struct {
	SlotID           string           `json:"slotid" bson:"slotid"`
	ProviderID       string           `json:"providerid" bson:"providerid"`
	Date             string           `json:"date" bson:"date"`           // "YYYY-MM-DD"
	StartTime        string           `json:"startTime" bson:"starttime"` // "HH:MM"
	EndTime          string           `json:"endTime" bson:"endtime"`
	Duration         int              `json:"duration" bson:"duration"`
	IsActive         bool             `json:"isActive" bson:"isactive"`
	IsBooked         bool             `json:"isBooked" bson:"isbooked"`
	BookedBy         string           `json:"bookedBy,omitempty" bson:"bookedby,omitempty"`
	BookingData      *BookingSnapshot `json:"bookingData,omitempty" bson:"bookingdata,omitempty"`
	Amount           float64          `json:"amount" bson:"amount"`
	Payment          bool             `json:"payment" bson:"payment"`
	Cancelled        bool             `json:"cancelled" bson:"cancelled"`
	IsCompleted      bool             `json:"isCompleted" bson:"iscompleted"`
	PendingExpiresAt time.Time        `json:"-" bson:"pendingexpiresat,omitempty"`
	CreatedAt        time.Time        `json:"createdAt" bson:"createdat"`
}
