package usecase

import (
	"time"

	"go-healthcare-booking/config"
	"go-healthcare-booking/internal/booking"
)

// BookingOptions carries the booking policy shared by the slot and
// appointment usecases
type BookingOptions struct {
	Location               *time.Location
	CancelledBlocksSlot    bool
	AvailabilityWindowDays int
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

func NewBookingOptions(cfg config.BookingConfig) (BookingOptions, error) {
	loc, err := cfg.Location()
	if err != nil {
		return BookingOptions{}, err
	}
	return BookingOptions{
		Location:               loc,
		CancelledBlocksSlot:    cfg.CancelledBlocksSlot,
		AvailabilityWindowDays: cfg.AvailabilityWindowDays,
	}, nil
}

// now returns the current instant in the booking location
func (o BookingOptions) now() time.Time {
	clock := o.Now
	if clock == nil {
		clock = time.Now
	}
	return clock().In(o.location())
}

func (o BookingOptions) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o BookingOptions) windowDays() int {
	if o.AvailabilityWindowDays <= 0 {
		return booking.DefaultAvailabilityWindowDays
	}
	return o.AvailabilityWindowDays
}
