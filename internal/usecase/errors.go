package usecase

import (
	"errors"

	"go-healthcare-booking/pkg/apperror"
)

var (
	ErrUserNotInContext = errors.New("user not found in context")

	ErrMissingBookingFields = apperror.NewValidation("doctor_id, date and time are required", nil)
	ErrInvalidDoctorID      = apperror.NewValidation("doctor_id must be a valid UUID", nil)
	ErrInvalidDate          = apperror.NewValidation("invalid date format, use YYYY-MM-DD", nil)
	ErrInvalidSlotTime      = apperror.NewValidation("time must be one of the hourly slots between 09:00 AM and 08:00 PM", nil)
	ErrUnknownDoctor        = apperror.NewValidation("doctor does not exist", nil)
	ErrInvalidFee           = apperror.NewValidation("fee must not be negative", nil)

	ErrSlotAlreadyBooked  = apperror.NewConflict("this slot is already booked, please pick another time", nil)
	ErrSlotBeingBooked    = apperror.NewConflict("this slot is being booked by someone else, please pick another time", nil)
	ErrAppointmentClaimed = apperror.NewConflict("appointment already belongs to another account", nil)

	ErrAppointmentNotFound = apperror.NewNotFound("appointment", nil)
	ErrDoctorNotFound      = apperror.NewNotFound("doctor", nil)
	ErrAuditLogNotFound    = apperror.NewNotFound("audit log", nil)
)
