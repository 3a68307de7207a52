package handler

import (
	"go-healthcare-booking/internal/booking"
	"go-healthcare-booking/pkg/validator"
)

// NewRequestValidator returns the request validator with the booking tags
// used by the DTOs: "slot" for master-list times and "weekday" for day names.
func NewRequestValidator() (*validator.CustomValidator, error) {
	v := validator.NewValidator()

	if err := v.RegisterStringRule("slot", "must be a time slot between 09:00 AM and 08:00 PM", func(s string) bool {
		_, err := booking.NormalizeSlotTime(s)
		return err == nil
	}); err != nil {
		return nil, err
	}

	if err := v.RegisterStringRule("weekday", "must be a weekday name", func(s string) bool {
		_, err := booking.NormalizeWeekdays([]string{s})
		return err == nil
	}); err != nil {
		return nil, err
	}

	return v, nil
}
