package models

import "time"

// Provider is a service provider account. SlotsBooked is the legacy
// per-provider schedule map: date token -> list of booked HH:MM times.
type Provider struct {
	ProviderID  string              `json:"providerid" bson:"providerid"`
	Name        string              `json:"name" bson:"name"`
	Email       string              `json:"email" bson:"email"`
	Password    string              `json:"-" bson:"password"`
	Image       string              `json:"image" bson:"image"`
	Speciality  string              `json:"speciality" bson:"speciality"`
	Degree      string              `json:"degree" bson:"degree"`
	Experience  string              `json:"experience" bson:"experience"`
	About       string              `json:"about" bson:"about"`
	Available   bool                `json:"available" bson:"available"`
	Fees        float64             `json:"fees" bson:"fees"`
	Address     Address             `json:"address" bson:"address"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	SlotsBooked map[string][]string `json:"slots_booked" bson:"slots_booked"`
}

// PublicProvider is the provider side of a frozen booking snapshot.
type PublicProvider struct {
	Name       string  `json:"name" bson:"name"`
	Email      string  `json:"email" bson:"email"`
	Speciality string  `json:"speciality" bson:"speciality"`
	Image      string  `json:"image" bson:"image"`
	Fees       float64 `json:"fees,omitempty" bson:"fees,omitempty"`
	Address    Address `json:"address,omitempty" bson:"address,omitempty"`
}

func (p Provider) Public() PublicProvider {
	return PublicProvider{
		Name:       p.Name,
		Email:      p.Email,
		Speciality: p.Speciality,
		Image:      p.Image,
		Fees:       p.Fees,
		Address:    p.Address,
	}
}

// ProviderOTP is the audit copy of a registration OTP; the live copy with
// its expiry lives in redis.
type ProviderOTP struct {
	Email     string    `json:"email" bson:"email"`
	OTP       string    `json:"otp" bson:"otp"`
	CreatedAt time.Time `json:"createdat" bson:"createdat"`
}
