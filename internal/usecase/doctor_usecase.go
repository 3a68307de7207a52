package usecase

import (
	"context"

	"go-healthcare-booking/internal/booking"
	"go-healthcare-booking/internal/converter"
	"go-healthcare-booking/internal/delivery/dto"
	"go-healthcare-booking/internal/delivery/http/middleware"
	"go-healthcare-booking/internal/domain/entity"
	"go-healthcare-booking/internal/domain/repository"
	"go-healthcare-booking/internal/infrastructure/cache"
	"go-healthcare-booking/internal/service"
	"go-healthcare-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, query *dto.DoctorListQuery) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateAvailabilityRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	doctors      *doctorLookup
	auditService service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	doctorCache *cache.MemoryCache,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		doctors:      newDoctorLookup(doctorRepo, doctorCache),
		auditService: auditService,
	}
}

// ListDoctors returns active doctors. The unfiltered directory is served from cache.
func (u *doctorUsecase) ListDoctors(ctx context.Context, query *dto.DoctorListQuery) (*dto.DoctorListResponse, error) {
	var (
		doctors []entity.Doctor
		err     error
	)
	if query == nil || (query.Name == "" && query.Specialty == "") {
		doctors, err = u.doctors.activeDirectory(ctx)
	} else {
		doctors, err = u.doctorRepo.FindAll(ctx, &entity.DoctorFilter{
			Name:       query.Name,
			Specialty:  query.Specialty,
			ActiveOnly: true,
		})
	}
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, apperror.NewTransport(err)
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctors.find(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, apperror.NewTransport(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

// CreateDoctor adds a doctor to the directory with normalized availability
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if req.Fee.IsNegative() {
		return nil, ErrInvalidFee
	}

	days, times, err := normalizeAvailability(req.AvailableDays, req.AvailableTimes)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		Name:           req.Name,
		Specialty:      req.Specialty,
		Fee:            req.Fee,
		AvailableDays:  days,
		AvailableTimes: times,
	}

	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		u.log.Errorf("Failed to create doctor: %+v", err)
		return nil, apperror.NewTransport(err)
	}
	u.doctors.invalidate(doctor.ID)

	response := converter.DoctorToResponse(doctor)

	// Audit log - create doctor
	if err := u.auditService.LogCreate(ctx, actorFromContext(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the request for audit log errors
	}

	u.log.Infof("Doctor created: id=%s, name=%s", doctor.ID, doctor.Name)
	return response, nil
}

// UpdateAvailability replaces a doctor's weekdays and slot times
func (u *doctorUsecase) UpdateAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateAvailabilityRequest) (*dto.DoctorResponse, error) {
	days, times, err := normalizeAvailability(req.AvailableDays, req.AvailableTimes)
	if err != nil {
		return nil, err
	}

	existing, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, apperror.NewTransport(err)
	}
	if existing == nil {
		return nil, ErrDoctorNotFound
	}

	// Capture old value for audit
	oldValue := dto.UpdateAvailabilityRequest{
		AvailableDays:  existing.AvailableDays,
		AvailableTimes: existing.AvailableTimes,
	}

	affected, err := u.doctorRepo.UpdateAvailability(ctx, doctorID, days, times)
	if err != nil {
		u.log.Errorf("Failed to update availability for doctor %s: %+v", doctorID, err)
		return nil, apperror.NewTransport(err)
	}
	if affected == 0 {
		return nil, ErrDoctorNotFound
	}
	u.doctors.invalidate(doctorID)

	existing.AvailableDays = days
	existing.AvailableTimes = times
	newValue := dto.UpdateAvailabilityRequest{AvailableDays: days, AvailableTimes: times}

	// Audit log - update availability
	if err := u.auditService.LogUpdate(ctx, actorFromContext(ctx), entity.AuditActionDoctorAvailability, "doctor", doctorID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	u.log.Infof("Doctor availability updated: id=%s, days=%v, times=%v", doctorID, days, times)
	return converter.DoctorToResponse(existing), nil
}

func normalizeAvailability(rawDays, rawTimes []string) (entity.StringList, entity.StringList, error) {
	days, err := booking.NormalizeWeekdays(rawDays)
	if err != nil {
		return nil, nil, apperror.NewValidation(err.Error(), err)
	}
	times, err := booking.NormalizeAvailableTimes(rawTimes)
	if err != nil {
		return nil, nil, apperror.NewValidation(err.Error(), err)
	}
	return days, times, nil
}

// actorFromContext returns the authenticated caller, or nil for guests
func actorFromContext(ctx context.Context) *uuid.UUID {
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		return &userID
	}
	return nil
}
