package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID      string `json:"doctor_id" validate:"required,uuid"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required,slot"`
	PatientName   string `json:"patient_name" validate:"required,min=2,max=255"`
	PatientAge    int    `json:"patient_age" validate:"gte=0,lte=150"`
	ContactNumber string `json:"contact_number" validate:"required,max=20"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,slot"`
}

// Response DTOs

type AppointmentResponse struct {
	ID            uuid.UUID       `json:"id"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	DoctorName    string          `json:"doctor_name"`
	Specialty     string          `json:"specialty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	PatientName   string          `json:"patient_name"`
	PatientAge    int             `json:"patient_age"`
	ContactNumber string          `json:"contact_number"`
	Status        string          `json:"status"`
	DisplayStatus StatusResponse  `json:"display_status"`
	IsUpcoming    bool            `json:"is_upcoming"`
	UserID        *uuid.UUID      `json:"user_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type StatusResponse struct {
	Label      string `json:"label"`
	Urgent     bool   `json:"urgent"`
	ColorClass string `json:"color_class"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
