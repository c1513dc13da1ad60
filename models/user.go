package models

import "time"

type Address struct {
	Line1 string `json:"line1" bson:"line1"`
	Line2 string `json:"line2,omitempty" bson:"line2,omitempty"`
}

type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   Address   `json:"address" bson:"address"`
	DOB       string    `json:"dob,omitempty" bson:"dob,omitempty"`
	Gender    string    `json:"gender,omitempty" bson:"gender,omitempty"`
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	LastLogin time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

// PublicUser is the denormalized shape frozen into booking snapshots.
type PublicUser struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}

func (u User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email, Phone: u.Phone, Image: u.Image}
}
