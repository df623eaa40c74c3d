package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound Kind = "NotFound"
	KindInvalid  Kind = "Invalid"
	KindConflict Kind = "Conflict"
)

// Error is the failure type returned by every core operation.
// Reason narrows the Kind down to the specific condition, Message is for humans.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		if e.Reason == "" {
			return string(e.Kind)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}

	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s/%s: %s", e.Kind, e.Reason, e.Message)
}

// Is matches on Kind, and on Reason as well when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Reason == "" || t.Reason == e.Reason
}

var (
	ErrNotFound = &Error{Kind: KindNotFound}
	ErrInvalid  = &Error{Kind: KindInvalid}
	ErrConflict = &Error{Kind: KindConflict}

	ErrUnknownStop       = &Error{Kind: KindNotFound, Reason: "UnknownStop"}
	ErrVehicleNotFound   = &Error{Kind: KindNotFound, Reason: "VehicleNotFound"}
	ErrPassengerNotFound = &Error{Kind: KindNotFound, Reason: "PassengerNotFound"}
	ErrTicketNotFound    = &Error{Kind: KindNotFound, Reason: "TicketNotFound"}
	ErrRouteNotFound     = &Error{Kind: KindNotFound, Reason: "RouteNotFound"}
	ErrNoPath            = &Error{Kind: KindNotFound, Reason: "NoPath"}

	ErrInvalidDistance = &Error{Kind: KindInvalid, Reason: "InvalidDistance"}
	ErrInvalidCriteria = &Error{Kind: KindInvalid, Reason: "InvalidCriteria"}
	ErrInvalidVehicle  = &Error{Kind: KindInvalid, Reason: "InvalidVehicle"}
	ErrInvalidDate     = &Error{Kind: KindInvalid, Reason: "InvalidDate"}
	ErrInvalidTime     = &Error{Kind: KindInvalid, Reason: "InvalidTime"}
	ErrInvalidRequest  = &Error{Kind: KindInvalid, Reason: "InvalidRequest"}

	ErrNoSeatsAvailable     = &Error{Kind: KindConflict, Reason: "NoSeatsAvailable"}
	ErrNoScheduledDeparture = &Error{Kind: KindConflict, Reason: "NoScheduledDeparture"}
	ErrRouteShape           = &Error{Kind: KindConflict, Reason: "RouteShape"}
	ErrAlreadyCancelled     = &Error{Kind: KindConflict, Reason: "AlreadyCancelled"}
)

// New returns a copy of base carrying a formatted message.
func New(base *Error, format string, args ...any) error {
	return &Error{
		Kind:    base.Kind,
		Reason:  base.Reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the Kind of err, or "" when err is not a core failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
