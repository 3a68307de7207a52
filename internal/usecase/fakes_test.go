package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go-healthcare-booking/config"
	"go-healthcare-booking/internal/domain/entity"
	"go-healthcare-booking/internal/domain/repository"
	"go-healthcare-booking/internal/infrastructure/cache"
	"go-healthcare-booking/internal/service"
	"go-healthcare-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// Monday 2024-06-10 08:30 in the booking location
var fixedNow = time.Date(2024, 6, 10, 8, 30, 0, 0, wib)

// fakeAppointmentRepo enforces the live-slot unique index like the
// partial index in postgres does
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]entity.Appointment

	createErr error
	listErr   error
	findErr   error
	// skipListMatching hides rows from ListMatching to simulate a racing insert
	skipListMatching bool
	// listExtra is appended to every ListMatching result
	listExtra []entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[uuid.UUID]entity.Appointment{}}
}

func (r *fakeAppointmentRepo) liveConflict(a entity.Appointment) bool {
	if a.IsCancelled() {
		return false
	}
	for _, other := range r.appointments {
		if other.ID != a.ID && !other.IsCancelled() && other.SameSlot(a.DoctorID, a.Date, a.Time) {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	a.ID = uuid.New()
	if r.liveConflict(*a) {
		return fmt.Errorf("%w: uq_appointments_live_slot", repository.ErrDuplicateSlot)
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.appointments[a.ID] = *a
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.OwnedBy(userID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *fakeAppointmentRepo) ListMatching(_ context.Context, doctorID uuid.UUID, date, slot string) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	if r.skipListMatching {
		return nil, nil
	}
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.SameSlot(doctorID, date, slot) {
			out = append(out, a)
		}
	}
	return append(out, r.listExtra...), nil
}

func (r *fakeAppointmentRepo) UpdateByID(_ context.Context, id uuid.UUID, patch entity.AppointmentPatch) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.UserID != nil {
		userID := *patch.UserID
		a.UserID = &userID
	}
	if r.liveConflict(a) {
		return nil, fmt.Errorf("%w: uq_appointments_live_slot", repository.ErrDuplicateSlot)
	}
	a.UpdatedAt = time.Now()
	r.appointments[id] = a
	return &a, nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments)
}

type fakeDoctorRepo struct {
	mu        sync.Mutex
	doctors   map[uuid.UUID]entity.Doctor
	findCalls int
	findErr   error
}

func newFakeDoctorRepo(doctors ...entity.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{doctors: map[uuid.UUID]entity.Doctor{}}
	for _, d := range doctors {
		r.doctors[d.ID] = d
	}
	return r
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	r.doctors[d.ID] = *d
	return nil
}

func (r *fakeDoctorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	d, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeDoctorRepo) FindAll(_ context.Context, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.doctors {
		if filter != nil && filter.Specialty != "" && d.Specialty != filter.Specialty {
			continue
		}
		if filter != nil && filter.ActiveOnly && !d.Active() {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDoctorRepo) UpdateAvailability(_ context.Context, id uuid.UUID, days, times entity.StringList) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return 0, nil
	}
	d.AvailableDays = days
	d.AvailableTimes = times
	r.doctors[id] = d
	return 1, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
	err     error
}

func (a *recordingAudit) LogCreate(_ context.Context, _ *uuid.UUID, action, _, _ string, _ interface{}) error {
	return a.record(action)
}

func (a *recordingAudit) LogUpdate(_ context.Context, _ *uuid.UUID, action, _, _ string, _, _ interface{}) error {
	return a.record(action)
}

func (a *recordingAudit) record(action string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return a.err
}

func (a *recordingAudit) recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.actions...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []service.AppointmentEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event service.AppointmentEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) recorded() []service.AppointmentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]service.AppointmentEvent(nil), n.events...)
}

type stubLocker struct {
	err error
}

func (s stubLocker) Reserve(context.Context, service.SlotKey) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	return func() {}, nil
}

func testDoctor(times ...string) entity.Doctor {
	return entity.Doctor{
		ID:             uuid.New(),
		Name:           "Dr. Sari Wulandari",
		Specialty:      "Cardiology",
		Fee:            decimal.RequireFromString("250000"),
		AvailableDays:  entity.StringList{"Monday", "Wednesday"},
		AvailableTimes: entity.StringList(times),
	}
}

type testEnv struct {
	appointments *fakeAppointmentRepo
	doctors      *fakeDoctorRepo
	audit        *recordingAudit
	notifier     *recordingNotifier
	tasks        *service.TaskRunner
	metrics      *metrics.Metrics
	cache        *cache.MemoryCache
	opts         BookingOptions
	locker       service.SlotLocker
}

func newTestEnv(t *testing.T, doctors ...entity.Doctor) *testEnv {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	return &testEnv{
		appointments: newFakeAppointmentRepo(),
		doctors:      newFakeDoctorRepo(doctors...),
		audit:        &recordingAudit{},
		notifier:     &recordingNotifier{},
		tasks:        service.NewTaskRunner(log, time.Second),
		metrics:      metrics.NewMetrics(prometheus.NewRegistry(), "test"),
		cache:        cache.NewMemoryCache(config.CacheConfig{TTL: time.Minute}),
		opts: BookingOptions{
			Location:               wib,
			CancelledBlocksSlot:    true,
			AvailabilityWindowDays: 30,
			Now:                    func() time.Time { return fixedNow },
		},
		locker: stubLocker{},
	}
}

func (e *testEnv) appointmentUsecase() AppointmentUsecase {
	log, _ := logtest.NewNullLogger()
	return NewAppointmentUsecase(log, e.appointments, e.doctors, e.cache, e.locker, e.notifier, e.audit, e.tasks, e.metrics, e.opts)
}

func (e *testEnv) slotCatalogUsecase() SlotCatalogUsecase {
	log, _ := logtest.NewNullLogger()
	return NewSlotCatalogUsecase(log, e.doctors, e.cache, e.metrics, e.opts)
}

func (e *testEnv) doctorUsecase() DoctorUsecase {
	log, _ := logtest.NewNullLogger()
	return NewDoctorUsecase(log, e.doctors, e.cache, e.audit)
}

// drain waits for post-commit tasks
func (e *testEnv) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.tasks.Wait(ctx))
}
