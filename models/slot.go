package models

import (
	"fmt"
	"time"
)

// Direction of travel for a shuttle slot.
const (
	DirectionToCollege   = "to_college"
	DirectionFromCollege = "from_college"
)

// Slot represents one bookable shuttle departure. The natural key is
// (location, date, time, direction); the generator upserts on it so the
// same departure is never created twice.
type Slot struct {
	ID        string    `bson:"id" json:"id"`
	Location  string    `bson:"location" json:"location"`
	Date      string    `bson:"date" json:"date"`           // "YYYY-MM-DD"
	Time      string    `bson:"time" json:"time"`           // "HH:MM", venue-local
	Direction string    `bson:"direction" json:"direction"` // to_college | from_college
	Capacity  int       `bson:"capacity" json:"capacity"`
	Students  []string  `bson:"students" json:"students"` // occupant student IDs
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AvailableSeats returns the number of unbooked seats.
func (s *Slot) AvailableSeats() int {
	return s.Capacity - len(s.Students)
}

// IsFull reports whether the slot has no seats left.
func (s *Slot) IsFull() bool {
	return len(s.Students) >= s.Capacity
}

// HasStudent reports whether the given student already occupies this slot.
func (s *Slot) HasStudent(studentID string) bool {
	for _, id := range s.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// DepartureTime resolves the slot's date and time into a concrete instant
// in the given timezone.
func (s *Slot) DepartureTime(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", s.Date, s.Time), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot departure %q %q: %w", s.Date, s.Time, err)
	}
	return t, nil
}

// SlotResponse is the student-facing view of a slot, with occupancy fields
// computed relative to the calling student.
type SlotResponse struct {
	ID             string `json:"id"`
	Location       string `json:"location"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Direction      string `json:"direction"`
	Capacity       int    `json:"capacity"`
	AvailableSeats int    `json:"availableSeats"`
	IsFull         bool   `json:"isFull"`
	IsBooked       bool   `json:"isBooked"`
}

// ToResponse builds the computed view for the given student.
func (s *Slot) ToResponse(studentID string) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		Location:       s.Location,
		Date:           s.Date,
		Time:           s.Time,
		Direction:      s.Direction,
		Capacity:       s.Capacity,
		AvailableSeats: s.AvailableSeats(),
		IsFull:         s.IsFull(),
		IsBooked:       s.HasStudent(studentID),
	}
}

// SlotUpdate carries a partial admin update. Nil fields are left untouched.
type SlotUpdate struct {
	Time     *string `json:"time,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
}

// SlotQuery filters slot listings.
type SlotQuery struct {
	Date      string
	Location  string
	Direction string
}
