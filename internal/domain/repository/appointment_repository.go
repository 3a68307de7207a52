package repository

import (
	"context"
	"errors"

	"go-healthcare-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDuplicateSlot is returned by writes that would put two occupying
// appointments on the same (doctor, date, time) slot
var ErrDuplicateSlot = errors.New("appointment slot already taken")

// AppointmentRepository is the appointment storage collaborator.
// Lookups return nil, nil when no record exists.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Appointment, error)
	// ListMatching returns every appointment on the exact slot, whatever its status
	ListMatching(ctx context.Context, doctorID uuid.UUID, date, time string) ([]entity.Appointment, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch entity.AppointmentPatch) (*entity.Appointment, error)
}
