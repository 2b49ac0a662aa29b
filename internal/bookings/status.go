package bookings

import (
	"errors"
	"fmt"
)

// Status is a booking's lifecycle state
type Status string

const (
	StatusPendingDeposit      Status = "pending_deposit"
	StatusReservedUnpaid      Status = "reserved_unpaid"
	StatusReservedDepositPaid Status = "reserved_deposit_paid"
	StatusPaidInFull          Status = "paid_in_full"
	StatusCancelled           Status = "cancelled"
	StatusRefunded            Status = "refunded"
)

// Event is something that happens to a booking
type Event string

const (
	EventDepositSettled  Event = "deposit_settled"
	EventBalanceSettled  Event = "balance_settled"
	EventCancelRequested Event = "cancel_requested"
	EventRefundSettled   Event = "refund_settled"
)

var ErrInvalidTransition = errors.New("invalid booking state transition")

// transitions is the complete set of legal (status, event) pairs. Anything
// not listed is rejected; unrecognized events are reported, never dropped.
var transitions = map[Status]map[Event]Status{
	StatusPendingDeposit: {
		EventDepositSettled:  StatusReservedDepositPaid,
		EventCancelRequested: StatusCancelled,
	},
	StatusReservedUnpaid: {
		EventCancelRequested: StatusCancelled,
	},
	StatusReservedDepositPaid: {
		EventBalanceSettled:  StatusPaidInFull,
		EventCancelRequested: StatusCancelled,
		EventRefundSettled:   StatusRefunded,
	},
	StatusPaidInFull: {
		EventRefundSettled: StatusRefunded,
	},
}

// Transition returns the next status for an event, or ErrInvalidTransition
func Transition(current Status, event Event) (Status, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return current, fmt.Errorf("%w: %s cannot accept %s", ErrInvalidTransition, current, event)
}

// IsTerminal reports whether the status accepts no further events
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// IsValid checks if the status is a known booking status
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingDeposit, StatusReservedUnpaid, StatusReservedDepositPaid,
		StatusPaidInFull, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// HasSettledPayment reports whether money has been captured for the booking
func (s Status) HasSettledPayment() bool {
	return s == StatusReservedDepositPaid || s == StatusPaidInFull
}
