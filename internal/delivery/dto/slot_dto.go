package dto

import (
	"go-healthcare-booking/internal/booking"

	"github.com/google/uuid"
)

// Response DTOs

type DoctorSlotsResponse struct {
	DoctorID uuid.UUID          `json:"doctor_id"`
	Date     string             `json:"date"`
	Slots    []booking.SlotView `json:"slots"`
}

type AvailableDatesResponse struct {
	DoctorID uuid.UUID         `json:"doctor_id"`
	Dates    []booking.DayView `json:"dates"`
}
