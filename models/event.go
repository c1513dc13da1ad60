package models

import "time"

type Participant struct {
	UserID           string     `json:"userId" bson:"userid"`
	UserData         PublicUser `json:"userData" bson:"userdata"`
	RegistrationDate time.Time  `json:"registrationDate" bson:"registrationdate"`
	PromoCode        string     `json:"promoCode,omitempty" bson:"promocode,omitempty"`
	FinalPrice       float64    `json:"finalPrice" bson:"finalprice"`
}

type Event struct {
	EventID              string         `json:"eventid" bson:"eventid"`
	Title                string         `json:"title" bson:"title"`
	Description          string         `json:"description" bson:"description"`
	Location             string         `json:"location" bson:"location"` // "Online" or an address
	StartDate            time.Time      `json:"startDate" bson:"startdate"`
	EndDate              time.Time      `json:"endDate" bson:"enddate"`
	MaxParticipants      int            `json:"maxParticipants" bson:"maxparticipants"`
	RegistrationDeadline time.Time      `json:"registrationDeadline" bson:"registrationdeadline"`
	IsFree               bool           `json:"isFree" bson:"isfree"`
	Price                float64        `json:"price" bson:"price"`
	ProviderID           string         `json:"providerid" bson:"providerid"`
	ProviderData         PublicProvider `json:"providerData" bson:"providerdata"`
	Participants         []Participant  `json:"participants" bson:"participants"`
	IsActive             bool           `json:"isActive" bson:"isactive"`
	CreatedAt            time.Time      `json:"createdAt" bson:"createdat"`
}
