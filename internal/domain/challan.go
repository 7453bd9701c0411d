package domain

import "time"

// Challan is a penalty notice issued against a user for invalid ticket use.
// TicketID is optional: a challan may be issued against unidentified use.
type Challan struct {
	ID         string
	TicketID   string
	UserID     string // phone number of the offending user
	Reason     string
	FineAmount float64
	Status     PaymentStatus
	PaymentRef string
	IssuedAt   time.Time
}
