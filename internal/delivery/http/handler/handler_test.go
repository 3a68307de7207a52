package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-healthcare-booking/internal/booking"
	"go-healthcare-booking/internal/delivery/dto"
	"go-healthcare-booking/internal/usecase"
	"go-healthcare-booking/pkg/apperror"
	"go-healthcare-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppointmentUsecase struct {
	created    *dto.CreateAppointmentRequest
	createErr  error
	cancelErr  error
	cancelled  uuid.UUID
	reschedule *dto.RescheduleAppointmentRequest
}

func (f *fakeAppointmentUsecase) CreateAppointment(_ context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.created = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dto.AppointmentResponse{ID: uuid.New(), Time: req.Time, Status: "Upcoming"}, nil
}

func (f *fakeAppointmentUsecase) RescheduleAppointment(_ context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.reschedule = req
	return &dto.AppointmentResponse{ID: id, Date: req.Date, Time: req.Time}, nil
}

func (f *fakeAppointmentUsecase) CancelAppointment(_ context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	f.cancelled = id
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &dto.AppointmentResponse{ID: id, Status: "Cancelled"}, nil
}

func (f *fakeAppointmentUsecase) ClaimAppointment(_ context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: id}, nil
}

func (f *fakeAppointmentUsecase) GetAppointment(_ context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return nil, usecase.ErrAppointmentNotFound
}

func (f *fakeAppointmentUsecase) GetMyAppointments(context.Context) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, nil
}

type fakeSlotCatalog struct {
	err error
}

func (f fakeSlotCatalog) GetDoctorSlots(_ context.Context, doctorID uuid.UUID, date string) (*dto.DoctorSlotsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DoctorSlotsResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    []booking.SlotView{{Time: "09:00 AM", Status: booking.SlotAvailable, Available: true}},
	}, nil
}

func (f fakeSlotCatalog) GetAvailableDates(_ context.Context, doctorID uuid.UUID) (*dto.AvailableDatesResponse, error) {
	return &dto.AvailableDatesResponse{DoctorID: doctorID}, nil
}

func newRouter(appointments usecase.AppointmentUsecase, slots usecase.SlotCatalogUsecase) *mux.Router {
	v, err := NewRequestValidator()
	if err != nil {
		panic(err)
	}
	ah := NewAppointmentHandler(appointments, v)
	dh := NewDoctorHandler(nil, slots, v)

	r := mux.NewRouter()
	r.HandleFunc("/appointments", ah.CreateAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments/{id}", ah.GetAppointment).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}/reschedule", ah.RescheduleAppointment).Methods(http.MethodPut)
	r.HandleFunc("/appointments/{id}/cancel", ah.CancelAppointment).Methods(http.MethodPost)
	r.HandleFunc("/doctors/{id}/slots", dh.GetDoctorSlots).Methods(http.MethodGet)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded response.Response
	json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

const validCreateBody = `{
	"doctor_id": "6f1f3c1e-8a5d-4c3f-9a52-0d6a0e3f4b11",
	"date": "2024-06-12",
	"time": "9:00 am",
	"patient_name": "Budi Santoso",
	"patient_age": 34,
	"contact_number": "+6281234567890"
}`

func TestCreateAppointment_ReturnsOK(t *testing.T) {
	fake := &fakeAppointmentUsecase{}
	rec, body := do(newRouter(fake, nil), http.MethodPost, "/appointments", validCreateBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	require.NotNil(t, fake.created)
	assert.Equal(t, "9:00 am", fake.created.Time)
}

func TestCreateAppointment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"slot taken", usecase.ErrSlotAlreadyBooked, http.StatusConflict, apperror.Message(usecase.ErrSlotAlreadyBooked)},
		{"slot being booked", usecase.ErrSlotBeingBooked, http.StatusConflict, apperror.Message(usecase.ErrSlotBeingBooked)},
		{"unknown doctor", usecase.ErrUnknownDoctor, http.StatusBadRequest, "doctor does not exist"},
		{"storage down", apperror.NewTransport(errors.New("dial tcp 10.0.0.5:5432")), http.StatusInternalServerError, "Failed to create appointment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAppointmentUsecase{createErr: tt.err}
			rec, body := do(newRouter(fake, nil), http.MethodPost, "/appointments", validCreateBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		})
	}
}

func TestCreateAppointment_RequestValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing doctor", `{"date":"2024-06-12","time":"09:00 AM","patient_name":"Budi","contact_number":"0812"}`, "doctor_id"},
		{"bad date", `{"doctor_id":"6f1f3c1e-8a5d-4c3f-9a52-0d6a0e3f4b11","date":"12-06-2024","time":"09:00 AM","patient_name":"Budi","contact_number":"0812"}`, "date"},
		{"off-list time", `{"doctor_id":"6f1f3c1e-8a5d-4c3f-9a52-0d6a0e3f4b11","date":"2024-06-12","time":"09:30 PM","patient_name":"Budi","contact_number":"0812"}`, "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAppointmentUsecase{}
			rec, body := do(newRouter(fake, nil), http.MethodPost, "/appointments", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			fields, ok := body.Error.(map[string]interface{})
			require.True(t, ok)
			assert.Contains(t, fields, tt.wantField)
			assert.Nil(t, fake.created)
		})
	}

	rec, _ := do(newRouter(&fakeAppointmentUsecase{}, nil), http.MethodPost, "/appointments", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAppointment_SlotRuleMessage(t *testing.T) {
	body := `{"doctor_id":"6f1f3c1e-8a5d-4c3f-9a52-0d6a0e3f4b11","date":"2024-06-12","time":"07:00 AM","patient_name":"Budi","contact_number":"0812"}`
	rec, resp := do(newRouter(&fakeAppointmentUsecase{}, nil), http.MethodPost, "/appointments", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields, ok := resp.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "time must be a time slot between 09:00 AM and 08:00 PM", fields["time"])
}

func TestCancelAppointment(t *testing.T) {
	fake := &fakeAppointmentUsecase{}
	id := uuid.New()

	rec, body := do(newRouter(fake, nil), http.MethodPost, "/appointments/"+id.String()+"/cancel", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, id, fake.cancelled)

	fake.cancelErr = usecase.ErrAppointmentNotFound
	rec, _ = do(newRouter(fake, nil), http.MethodPost, "/appointments/"+id.String()+"/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(newRouter(fake, nil), http.MethodPost, "/appointments/not-a-uuid/cancel", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRescheduleAppointment(t *testing.T) {
	fake := &fakeAppointmentUsecase{}
	id := uuid.New()

	rec, _ := do(newRouter(fake, nil), http.MethodPut, "/appointments/"+id.String()+"/reschedule", `{"date":"2024-06-13","time":"11:00 AM"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.reschedule)
	assert.Equal(t, "2024-06-13", fake.reschedule.Date)

	rec, _ = do(newRouter(fake, nil), http.MethodPut, "/appointments/"+id.String()+"/reschedule", `{"date":"2024-06-13"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAppointment_NotFound(t *testing.T) {
	rec, body := do(newRouter(&fakeAppointmentUsecase{}, nil), http.MethodGet, "/appointments/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "appointment not found", body.Message)
}

func TestGetDoctorSlots(t *testing.T) {
	r := newRouter(nil, fakeSlotCatalog{})
	id := uuid.New()

	rec, body := do(r, http.MethodGet, "/doctors/"+id.String()+"/slots?date=2024-06-12", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-06-12", data["date"])

	rec, _ = do(r, http.MethodGet, "/doctors/"+id.String()+"/slots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(newRouter(nil, fakeSlotCatalog{err: usecase.ErrDoctorNotFound}), http.MethodGet, "/doctors/"+id.String()+"/slots?date=2024-06-12", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
