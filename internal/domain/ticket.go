package domain

import "time"

// FareClass is the travel class of a ticket.
type FareClass string

const (
	FareClassSecond FareClass = "Second Class"
	FareClassFirst  FareClass = "First Class"
)

// PassengerClass distinguishes adult and child fares.
type PassengerClass string

const (
	PassengerAdult PassengerClass = "Adult"
	PassengerChild PassengerClass = "Child"
)

// TripValidity is the journey validity of a ticket.
type TripValidity string

const (
	ValidityOneWay TripValidity = "One-Way"
	ValidityReturn TripValidity = "Return"
)

// PaymentStatus represents the settlement state of a ticket or challan.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Ticket represents a booked journey. It is created in PENDING state when the
// booking is accepted and transitions to PAID exactly once, on verified
// settlement. Nothing in this service deletes tickets.
type Ticket struct {
	ID             string
	UserID         string // phone number of the owning passenger
	FromStation    string
	ToStation      string
	JourneyDate    string // YYYY-MM-DD as supplied by the booking form
	FareClass      FareClass
	PassengerClass PassengerClass
	Validity       TripValidity
	Fare           float64
	Status         PaymentStatus
	PaymentRef     string // gateway payment id, set on settlement
	IssuedAt       time.Time
}
