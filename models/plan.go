package models

import "time"

// Plan is a purchasable bundle of ride credits, optionally scoped to one
// shuttle location. Payment settlement is handled by the external payment
// flow; on confirmation the plan's rides are credited to the student.
type Plan struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Rides     int       `bson:"rides" json:"rides"`
	Price     float64   `bson:"price" json:"price"`
	Location  string    `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PurchaseIntent is returned when a student starts a plan purchase.
type PurchaseIntent struct {
	PlanID       string  `json:"planId"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	IntentID     string  `json:"intentId"`
	ClientSecret string  `json:"clientSecret"`
}
