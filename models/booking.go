package models

import "time"

// RideCostPerBooking is the credit price of one round trip: one outbound
// seat plus one return seat.
const RideCostPerBooking = 2

// Booking is one reserved round trip, embedded in the owning student's
// document. Whenever a booking exists, the student must appear in both
// referenced slots' occupant lists.
type Booking struct {
	ID           string    `bson:"id" json:"id"`
	Date         string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	GoSlotID     string    `bson:"goSlotId" json:"goSlotId"`
	ReturnSlotID string    `bson:"returnSlotId" json:"returnSlotId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// BookingRequest is the payload for booking a round trip.
type BookingRequest struct {
	GoSlotID     string `json:"goSlotId" binding:"required"`
	ReturnSlotID string `json:"returnSlotId" binding:"required"`
	Date         string `json:"date" binding:"required"`
}

// BookingSummary is a booking joined with the details of both slots.
type BookingSummary struct {
	ID         string       `json:"id"`
	Date       string       `json:"date"`
	GoSlot     SlotResponse `json:"goSlot"`
	ReturnSlot SlotResponse `json:"returnSlot"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// BookingResult is returned to the caller after a successful booking.
type BookingResult struct {
	RemainingRides int            `json:"remainingRides"`
	Booking        BookingSummary `json:"booking"`
}

// BookingList is the student's booking overview.
type BookingList struct {
	RemainingRides int              `json:"remainingRides"`
	Bookings       []BookingSummary `json:"bookings"`
}
