package repository

import (
	"context"

	"go-healthcare-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context, filter *entity.DoctorFilter) ([]entity.Doctor, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, days, times entity.StringList) (int64, error)
}
