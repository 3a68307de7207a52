package converter

import (
	"time"

	"go-healthcare-booking/internal/delivery/dto"
	"go-healthcare-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Display status is derived at now, which carries the booking location.
func AppointmentToResponse(appointment *entity.Appointment, now time.Time) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	status := appointment.DisplayStatus(now)
	return &dto.AppointmentResponse{
		ID:            appointment.ID,
		DoctorID:      appointment.DoctorID,
		DoctorName:    appointment.DoctorName,
		Specialty:     appointment.Specialty,
		Amount:        appointment.Amount,
		Date:          appointment.Date,
		Time:          appointment.Time,
		PatientName:   appointment.PatientName,
		PatientAge:    appointment.PatientAge,
		ContactNumber: appointment.ContactNumber,
		Status:        string(appointment.Status),
		DisplayStatus: dto.StatusResponse{
			Label:      status.Label,
			Urgent:     status.Urgent,
			ColorClass: status.ColorClass,
		},
		IsUpcoming: appointment.IsUpcoming(now),
		UserID:     appointment.UserID,
		CreatedAt:  appointment.CreatedAt,
		UpdatedAt:  appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment, now time.Time) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], now)
	}
	return responses
}
