package models

// UsageStat summarizes seat usage for one direction on one date.
type UsageStat struct {
	Direction     string  `bson:"_id" json:"direction"`
	SlotCount     int     `bson:"slotCount" json:"slotCount"`
	TotalCapacity int     `bson:"totalCapacity" json:"totalCapacity"`
	BookedSeats   int     `bson:"bookedSeats" json:"bookedSeats"`
	Occupancy     float64 `bson:"-" json:"occupancy"` // bookedSeats / totalCapacity
}
