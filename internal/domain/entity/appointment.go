package entity

import (
	"time"

	"go-healthcare-booking/internal/booking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus is the persisted status of an appointment.
// Completed and urgency labels are derived at read time and never stored.
type AppointmentStatus string

const (
	AppointmentStatusUpcoming  AppointmentStatus = "Upcoming"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// Appointment is a booked (doctor, date, time) slot. Doctor and patient
// fields are snapshots taken at booking time.
type Appointment struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_slot,priority:1" json:"doctor_id"`
	DoctorName    string            `gorm:"type:varchar(255);not null" json:"doctor_name"`
	Specialty     string            `gorm:"type:varchar(100);not null" json:"specialty"`
	Amount        decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	Date          string            `gorm:"type:varchar(10);not null;index:idx_appointments_slot,priority:2" json:"date"`
	Time          string            `gorm:"type:varchar(8);not null;index:idx_appointments_slot,priority:3" json:"time"`
	PatientName   string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientAge    int               `gorm:"not null;default:0" json:"patient_age"`
	ContactNumber string            `gorm:"type:varchar(20);not null" json:"contact_number"`
	Status        AppointmentStatus `gorm:"type:varchar(20);not null;default:'Upcoming';index" json:"status"`
	UserID        *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentPatch lists the fields an in-place update may touch
type AppointmentPatch struct {
	Date   *string
	Time   *string
	Status *AppointmentStatus
	UserID *uuid.UUID
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// OwnedBy reports whether the appointment is bound to userID
func (a *Appointment) OwnedBy(userID uuid.UUID) bool {
	return a.UserID != nil && *a.UserID == userID
}

// SameSlot reports whether the appointment occupies doctorID/date/time
func (a *Appointment) SameSlot(doctorID uuid.UUID, date, slot string) bool {
	return a.DoctorID == doctorID && a.Date == date && a.Time == slot
}

// DisplayStatus derives the display status at now; now carries the booking location
func (a *Appointment) DisplayStatus(now time.Time) booking.StatusView {
	return booking.DeriveStatus(a.Date, a.Time, a.IsCancelled(), now)
}

// IsUpcoming reports whether the appointment is still ahead of now
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return booking.IsUpcoming(a.Date, a.Time, a.IsCancelled(), now)
}
