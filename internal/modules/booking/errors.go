package booking

import "errors"

var (
	ErrSlotNotFound         = errors.New("time slot not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrSlotFull             = errors.New("time slot has no available capacity")
	ErrAlreadyBookedSameDay = errors.New("user already has a confirmed booking on that date")
	ErrSlotInPast           = errors.New("time slot is in the past")
	ErrConcurrency          = errors.New("slot was taken by a concurrent booking, try again")
	ErrForbidden            = errors.New("booking belongs to another user")
	ErrNotConfirmed         = errors.New("only confirmed bookings can be cancelled")
	ErrCancelTooLate        = errors.New("bookings can only be cancelled at least one hour before start")
	ErrInvalidRange         = errors.New("invalid date range")
)
