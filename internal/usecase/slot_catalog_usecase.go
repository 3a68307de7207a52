package usecase

import (
	"context"

	"go-healthcare-booking/internal/booking"
	"go-healthcare-booking/internal/delivery/dto"
	"go-healthcare-booking/internal/domain/repository"
	"go-healthcare-booking/internal/infrastructure/cache"
	"go-healthcare-booking/pkg/apperror"
	"go-healthcare-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	slotQueryDaySlots       = "slots"
	slotQueryAvailableDates = "available_dates"
)

type SlotCatalogUsecase interface {
	GetDoctorSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.DoctorSlotsResponse, error)
	GetAvailableDates(ctx context.Context, doctorID uuid.UUID) (*dto.AvailableDatesResponse, error)
}

type slotCatalogUsecase struct {
	log     *logrus.Logger
	doctors *doctorLookup
	metrics *metrics.Metrics
	opts    BookingOptions
}

func NewSlotCatalogUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	doctorCache *cache.MemoryCache,
	m *metrics.Metrics,
	opts BookingOptions,
) SlotCatalogUsecase {
	return &slotCatalogUsecase{
		log:     log,
		doctors: newDoctorLookup(doctorRepo, doctorCache),
		metrics: m,
		opts:    opts,
	}
}

// GetDoctorSlots classifies the master slot list for date against the
// doctor's available times. Passed slots are only computed for today.
func (u *slotCatalogUsecase) GetDoctorSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.DoctorSlotsResponse, error) {
	target, err := booking.ParseDate(date, u.opts.location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	doctor, err := u.doctors.find(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, apperror.NewTransport(err)
	}
	if doctor == nil || !doctor.Active() {
		return nil, ErrDoctorNotFound
	}

	u.metrics.ObserveSlotQuery(slotQueryDaySlots)

	targetDate := target.Format(booking.DateLayout)
	return &dto.DoctorSlotsResponse{
		DoctorID: doctorID,
		Date:     targetDate,
		Slots:    booking.ClassifySlots(booking.MasterSlots(), doctor.AvailableTimes, targetDate, u.opts.now()),
	}, nil
}

// GetAvailableDates marks the bookable days of the rolling window starting today
func (u *slotCatalogUsecase) GetAvailableDates(ctx context.Context, doctorID uuid.UUID) (*dto.AvailableDatesResponse, error) {
	doctor, err := u.doctors.find(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, apperror.NewTransport(err)
	}
	if doctor == nil || !doctor.Active() {
		return nil, ErrDoctorNotFound
	}

	u.metrics.ObserveSlotQuery(slotQueryAvailableDates)

	return &dto.AvailableDatesResponse{
		DoctorID: doctorID,
		Dates:    booking.AvailableDates(doctor.AvailableDays, u.opts.now(), u.opts.windowDays()),
	}, nil
}
