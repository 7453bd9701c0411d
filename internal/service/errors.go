package service

import "errors"

var (
	// ErrInvalidUserID is returned when the user phone number is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrUnknownStation is returned when a station is not in the catalog.
	ErrUnknownStation = errors.New("unknown station")

	// ErrFareUnavailable is returned when no fare can be quoted for a route.
	// Callers must treat this as "fare unavailable", never as a free ticket.
	ErrFareUnavailable = errors.New("fare unavailable for route")

	// ErrInvalidJourneyDate is returned when the journey date is missing.
	ErrInvalidJourneyDate = errors.New("invalid journey date")

	// ErrInvalidAmount is returned when a payment amount is not positive.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrInvalidFineAmount is returned when a challan fine is negative.
	ErrInvalidFineAmount = errors.New("invalid fine amount")

	// ErrInvalidReason is returned when a challan reason is empty.
	ErrInvalidReason = errors.New("invalid challan reason")

	// ErrInvalidOrderID is returned when an order id is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrGatewayUnavailable is returned when the payment gateway cannot be
	// reached. No automatic retry: the booking flow asks the user to resubmit.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrGatewayRejected is returned when the gateway refuses an order.
	ErrGatewayRejected = errors.New("payment gateway rejected order")

	// ErrVerificationFailed is returned on a callback signature mismatch.
	// Fatal for that order.
	ErrVerificationFailed = errors.New("payment signature verification failed")

	// ErrOrderAlreadyFailed is returned for a callback on a failed order.
	ErrOrderAlreadyFailed = errors.New("order already failed")

	// ErrOrderNotSettleable is returned when an order is in a state that
	// cannot accept a callback.
	ErrOrderNotSettleable = errors.New("order cannot be settled in current state")

	// ErrPersistenceFailure is returned when settlement could not be written
	// after the gateway verified the payment. The order stays
	// AWAITING_CALLBACK so a later callback or reconciliation pass can retry.
	ErrPersistenceFailure = errors.New("settlement persistence failed")

	// ErrNotificationFailed is returned when a payment link could not be
	// delivered. Non-fatal: issuance already succeeded.
	ErrNotificationFailed = errors.New("payment link notification failed")
)
