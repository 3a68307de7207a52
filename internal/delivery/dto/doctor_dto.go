package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=255"`
	Specialty      string          `json:"specialty" validate:"required,max=100"`
	Fee            decimal.Decimal `json:"fee"`
	AvailableDays  []string        `json:"available_days" validate:"dive,weekday"`
	AvailableTimes []string        `json:"available_times" validate:"dive,slot"`
}

type UpdateAvailabilityRequest struct {
	AvailableDays  []string `json:"available_days" validate:"dive,weekday"`
	AvailableTimes []string `json:"available_times" validate:"dive,slot"`
}

type DoctorListQuery struct {
	Name      string
	Specialty string
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Specialty      string          `json:"specialty"`
	Fee            decimal.Decimal `json:"fee"`
	AvailableDays  []string        `json:"available_days"`
	AvailableTimes []string        `json:"available_times"`
	IsActive       bool            `json:"is_active"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
