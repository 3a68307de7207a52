package repository

import (
	"context"
	"errors"
	"fmt"

	"go-healthcare-booking/internal/domain/entity"
	domainRepo "go-healthcare-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return translateSlotError(r.db.WithContext(ctx).Create(appointment).Error)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// ListMatching uses map conditions so gorm quotes the date/time column names
func (r *appointmentRepository) ListMatching(ctx context.Context, doctorID uuid.UUID, date, time string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"doctor_id": doctorID, "date": date, "time": time}).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateByID applies patch in place and returns the updated record,
// or nil, nil when the appointment does not exist.
func (r *appointmentRepository) UpdateByID(ctx context.Context, id uuid.UUID, patch entity.AppointmentPatch) (*entity.Appointment, error) {
	updates := map[string]interface{}{}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.Time != nil {
		updates["time"] = *patch.Time
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.UserID != nil {
		updates["user_id"] = *patch.UserID
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&entity.Appointment{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, translateSlotError(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, nil
		}
	}

	return r.FindByID(ctx, id)
}

// translateSlotError maps the live-slot unique index violation, surfaced by
// the postgres dialector as gorm.ErrDuplicatedKey, onto the domain error
func translateSlotError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicateSlot, err)
	}
	return err
}
