package usecase

import (
	"context"
	"errors"
	"strings"

	"go-healthcare-booking/internal/booking"
	"go-healthcare-booking/internal/converter"
	"go-healthcare-booking/internal/delivery/dto"
	"go-healthcare-booking/internal/delivery/http/middleware"
	"go-healthcare-booking/internal/domain/entity"
	"go-healthcare-booking/internal/domain/repository"
	"go-healthcare-booking/internal/infrastructure/cache"
	"go-healthcare-booking/internal/service"
	"go-healthcare-booking/pkg/apperror"
	"go-healthcare-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Operation labels for booking metrics
const (
	opCreate     = "create"
	opReschedule = "reschedule"
	opCancel     = "cancel"
	opClaim      = "claim"
)

const appointmentEntity = "appointment"

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ClaimAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctors         *doctorLookup
	slotLocker      service.SlotLocker
	notifier        service.Notifier
	auditService    service.AuditService
	tasks           *service.TaskRunner
	metrics         *metrics.Metrics
	opts            BookingOptions
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	doctorCache *cache.MemoryCache,
	slotLocker service.SlotLocker,
	notifier service.Notifier,
	auditService service.AuditService,
	tasks *service.TaskRunner,
	m *metrics.Metrics,
	opts BookingOptions,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		doctors:         newDoctorLookup(doctorRepo, doctorCache),
		slotLocker:      slotLocker,
		notifier:        notifier,
		auditService:    auditService,
		tasks:           tasks,
		metrics:         m,
		opts:            opts,
	}
}

// CreateAppointment books a (doctor, date, time) slot.
//
// Flow:
// 1. Validate doctor_id, date and time; time must be a master slot
// 2. Snapshot doctor name, specialty and fee; inactive doctors take no bookings
// 3. Reserve the slot (Redis SET NX) so concurrent requests fail fast
// 4. ListMatching; an occupying appointment means conflict
// 5. Insert; the partial unique index rejects anything step 4 missed
// 6. Audit log and notification run after commit and never fail the request
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (_ *dto.AppointmentResponse, err error) {
	defer func() { u.metrics.ObserveBooking(opCreate, err) }()

	// Step 1: Validate candidate
	if strings.TrimSpace(req.DoctorID) == "" {
		return nil, ErrMissingBookingFields
	}
	doctorID, parseErr := uuid.Parse(strings.TrimSpace(req.DoctorID))
	if parseErr != nil {
		return nil, ErrInvalidDoctorID
	}
	date, slot, err := u.validateSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	// Step 2: Doctor snapshot
	doctor, err := u.doctors.find(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, apperror.NewTransport(err)
	}
	if doctor == nil || !doctor.Active() {
		return nil, ErrUnknownDoctor
	}

	// Step 3: Reserve slot
	release, err := u.reserve(ctx, service.SlotKey{DoctorID: doctorID, Date: date, Time: slot})
	if err != nil {
		return nil, err
	}
	defer release()

	// Step 4: Existence check
	if err := u.ensureSlotFree(ctx, doctorID, date, slot, uuid.Nil); err != nil {
		return nil, err
	}

	// Step 5: Insert
	appointment := &entity.Appointment{
		DoctorID:      doctorID,
		DoctorName:    doctor.Name,
		Specialty:     doctor.Specialty,
		Amount:        doctor.Fee,
		Date:          date,
		Time:          slot,
		PatientName:   strings.TrimSpace(req.PatientName),
		PatientAge:    req.PatientAge,
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Status:        entity.AppointmentStatusUpcoming,
		UserID:        actorFromContext(ctx),
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			u.log.Infof("Slot taken at insert: doctor=%s, date=%s, time=%s", doctorID, date, slot)
			return nil, ErrSlotAlreadyBooked
		}
		u.log.Errorf("Failed to insert appointment: %+v", err)
		return nil, apperror.NewTransport(err)
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, date=%s, time=%s", appointment.ID, doctorID, date, slot)

	// Step 6: After-commit side effects
	u.afterCommit(ctx, service.EventAppointmentCreated, entity.AuditActionAppointmentCreate, appointment, nil)

	return converter.AppointmentToResponse(appointment, u.opts.now()), nil
}

// RescheduleAppointment moves an appointment to a new date and time and
// marks it Upcoming again. The appointment's own row never conflicts with itself.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (_ *dto.AppointmentResponse, err error) {
	defer func() { u.metrics.ObserveBooking(opReschedule, err) }()

	date, slot, err := u.validateSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	existing, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	release, err := u.reserve(ctx, service.SlotKey{DoctorID: existing.DoctorID, Date: date, Time: slot})
	if err != nil {
		return nil, err
	}
	defer release()

	if err := u.ensureSlotFree(ctx, existing.DoctorID, date, slot, existing.ID); err != nil {
		return nil, err
	}

	// Capture old value for audit
	oldValue := slotSnapshot(existing)

	upcoming := entity.AppointmentStatusUpcoming
	updated, err := u.appointmentRepo.UpdateByID(ctx, appointmentID, entity.AppointmentPatch{
		Date:   &date,
		Time:   &slot,
		Status: &upcoming,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotAlreadyBooked
		}
		u.log.Errorf("Failed to reschedule appointment %s: %+v", appointmentID, err)
		return nil, apperror.NewTransport(err)
	}
	if updated == nil {
		return nil, ErrAppointmentNotFound
	}

	u.log.Infof("Appointment rescheduled: id=%s, from=%s %s, to=%s %s", appointmentID, existing.Date, existing.Time, date, slot)
	u.afterCommit(ctx, service.EventAppointmentRescheduled, entity.AuditActionAppointmentReschedule, updated, oldValue)

	return converter.AppointmentToResponse(updated, u.opts.now()), nil
}

// CancelAppointment marks an appointment Cancelled in place. Cancelling an
// already cancelled appointment succeeds without side effects.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (_ *dto.AppointmentResponse, err error) {
	defer func() { u.metrics.ObserveBooking(opCancel, err) }()

	existing, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if existing.IsCancelled() {
		return converter.AppointmentToResponse(existing, u.opts.now()), nil
	}

	oldValue := slotSnapshot(existing)

	cancelled := entity.AppointmentStatusCancelled
	updated, err := u.appointmentRepo.UpdateByID(ctx, appointmentID, entity.AppointmentPatch{Status: &cancelled})
	if err != nil {
		u.log.Errorf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return nil, apperror.NewTransport(err)
	}
	if updated == nil {
		return nil, ErrAppointmentNotFound
	}

	u.log.Infof("Appointment cancelled: id=%s, doctor=%s, date=%s, time=%s", appointmentID, updated.DoctorID, updated.Date, updated.Time)
	u.afterCommit(ctx, service.EventAppointmentCancelled, entity.AuditActionAppointmentCancel, updated, oldValue)

	return converter.AppointmentToResponse(updated, u.opts.now()), nil
}

// ClaimAppointment binds a guest appointment to the authenticated caller
func (u *appointmentUsecase) ClaimAppointment(ctx context.Context, appointmentID uuid.UUID) (_ *dto.AppointmentResponse, err error) {
	defer func() { u.metrics.ObserveBooking(opClaim, err) }()

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	existing, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != nil {
		if existing.OwnedBy(userID) {
			return converter.AppointmentToResponse(existing, u.opts.now()), nil
		}
		return nil, ErrAppointmentClaimed
	}

	updated, err := u.appointmentRepo.UpdateByID(ctx, appointmentID, entity.AppointmentPatch{UserID: &userID})
	if err != nil {
		u.log.Errorf("Failed to claim appointment %s: %+v", appointmentID, err)
		return nil, apperror.NewTransport(err)
	}
	if updated == nil {
		return nil, ErrAppointmentNotFound
	}

	u.log.Infof("Appointment claimed: id=%s, user=%s", appointmentID, userID)
	u.tasks.Go("create audit log "+entity.AuditActionAppointmentClaim, func(taskCtx context.Context) error {
		return u.auditService.LogUpdate(taskCtx, &userID, entity.AuditActionAppointmentClaim, appointmentEntity, appointmentID.String(), nil, map[string]string{"user_id": userID.String()})
	})

	return converter.AppointmentToResponse(updated, u.opts.now()), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment, u.opts.now()), nil
}

// GetMyAppointments returns all appointments of the logged-in user
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	appointments, err := u.appointmentRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, apperror.NewTransport(err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, u.opts.now()),
		Total:        len(appointments),
	}, nil
}

// validateSlot checks presence and format of a candidate date and time and
// returns them in canonical form
func (u *appointmentUsecase) validateSlot(rawDate, rawTime string) (string, string, error) {
	rawDate, rawTime = strings.TrimSpace(rawDate), strings.TrimSpace(rawTime)
	if rawDate == "" || rawTime == "" {
		return "", "", ErrMissingBookingFields
	}

	date, err := booking.ParseDate(rawDate, u.opts.location())
	if err != nil {
		return "", "", ErrInvalidDate
	}
	slot, err := booking.NormalizeSlotTime(rawTime)
	if err != nil {
		return "", "", ErrInvalidSlotTime
	}
	return date.Format(booking.DateLayout), slot, nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, apperror.NewTransport(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// reserve takes the slot reservation. A reservation backend failure is logged
// and the booking continues unreserved; the unique index still holds.
func (u *appointmentUsecase) reserve(ctx context.Context, key service.SlotKey) (func(), error) {
	noop := func() {}
	if u.slotLocker == nil {
		return noop, nil
	}

	release, err := u.slotLocker.Reserve(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrSlotLocked) {
			return nil, ErrSlotBeingBooked
		}
		u.log.Warnf("Failed to reserve %s, continuing without reservation: %+v", key, err)
		return noop, nil
	}
	return release, nil
}

// ensureSlotFree fails with ErrSlotAlreadyBooked when another appointment
// occupies the slot. Whether cancelled appointments occupy it is policy.
func (u *appointmentUsecase) ensureSlotFree(ctx context.Context, doctorID uuid.UUID, date, slot string, exclude uuid.UUID) error {
	matches, err := u.appointmentRepo.ListMatching(ctx, doctorID, date, slot)
	if err != nil {
		u.log.Warnf("Failed to check slot doctor=%s, date=%s, time=%s: %+v", doctorID, date, slot, err)
		return apperror.NewTransport(err)
	}

	for i := range matches {
		if matches[i].ID == exclude || !matches[i].SameSlot(doctorID, date, slot) {
			continue
		}
		if matches[i].IsCancelled() && !u.opts.CancelledBlocksSlot {
			continue
		}
		return ErrSlotAlreadyBooked
	}
	return nil
}

// afterCommit queues the audit entry and the notification for a committed
// write. oldValue is nil for creates.
func (u *appointmentUsecase) afterCommit(ctx context.Context, eventType, action string, appointment *entity.Appointment, oldValue interface{}) {
	actor := actorFromContext(ctx)
	snapshot := *appointment
	newValue := slotSnapshot(&snapshot)
	event := service.NewAppointmentEvent(eventType, &snapshot, u.opts.now())

	u.tasks.Go("create audit log "+action, func(taskCtx context.Context) error {
		if oldValue == nil {
			return u.auditService.LogCreate(taskCtx, actor, action, appointmentEntity, snapshot.ID.String(), newValue)
		}
		return u.auditService.LogUpdate(taskCtx, actor, action, appointmentEntity, snapshot.ID.String(), oldValue, newValue)
	})

	if u.notifier != nil {
		u.tasks.Go("publish "+eventType, func(taskCtx context.Context) error {
			return u.notifier.Notify(taskCtx, event)
		})
	}
}

// slotSnapshot is the audit view of an appointment's slot
func slotSnapshot(a *entity.Appointment) map[string]string {
	return map[string]string{
		"doctor_id": a.DoctorID.String(),
		"date":      a.Date,
		"time":      a.Time,
		"status":    string(a.Status),
	}
}
