package models

import "time"

// Actor roles used by auth and the cancellation policy.
const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleProvider = "provider" // coach / service staff
)

// User is the minimal identity the reservation core needs. Guests get a lazily
// created record keyed by email.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      string    `bson:"role" json:"role"`
	Guest     bool      `bson:"guest" json:"guest"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// GuestContact is the contact info a guest supplies when booking without an
// account. Email is mandatory.
type GuestContact struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}
