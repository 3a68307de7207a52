package converter

import (
	"go-healthcare-booking/internal/delivery/dto"
	"go-healthcare-booking/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialty:      doctor.Specialty,
		Fee:            doctor.Fee,
		AvailableDays:  nonNil(doctor.AvailableDays),
		AvailableTimes: nonNil(doctor.AvailableTimes),
		IsActive:       doctor.Active(),
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func nonNil(list entity.StringList) []string {
	if list == nil {
		return []string{}
	}
	return list
}
