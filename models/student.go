package models

import "time"

// Student represents a registered rider. Bookings are embedded on the
// student document; RemainingRides is the prepaid ride-credit balance and
// is never allowed to go negative.
type Student struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"passwordHash" json:"-"`
	PhoneNumber    string    `bson:"phoneNumber" json:"phoneNumber"`
	Location       string    `bson:"location,omitempty" json:"location,omitempty"`
	RemainingRides int       `bson:"remainingRides" json:"remainingRides"`
	Bookings       []Booking `bson:"bookings" json:"bookings"`
	TokenHash      string    `bson:"tokenHash,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FindBooking returns the embedded booking with the given id, or nil.
func (s *Student) FindBooking(bookingID string) *Booking {
	for i := range s.Bookings {
		if s.Bookings[i].ID == bookingID {
			return &s.Bookings[i]
		}
	}
	return nil
}

// StudentRegistrationData is the payload for creating a new student account.
type StudentRegistrationData struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Location    string `json:"location"`
}

// AuthResponse is returned after a successful register or login.
type AuthResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Token          string `json:"token"`
	RemainingRides int    `json:"remainingRides"`
}
