package usecase

import (
	"context"

	"go-healthcare-booking/internal/domain/entity"
	"go-healthcare-booking/internal/domain/repository"
	"go-healthcare-booking/internal/infrastructure/cache"

	"github.com/google/uuid"
)

const (
	doctorCacheKeyPrefix = "doctor:"
	doctorDirectoryKey   = "doctors:active"
)

func doctorCacheKey(id uuid.UUID) string {
	return doctorCacheKeyPrefix + id.String()
}

// doctorLookup reads doctor records through the process cache.
// Cached records are deep-copied on the way out; callers never share them.
type doctorLookup struct {
	repo  repository.DoctorRepository
	cache *cache.MemoryCache
}

func newDoctorLookup(repo repository.DoctorRepository, c *cache.MemoryCache) *doctorLookup {
	return &doctorLookup{repo: repo, cache: c}
}

// find returns nil, nil for an unknown doctor
func (l *doctorLookup) find(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	if cached, ok := l.cache.Get(doctorCacheKey(id)); ok {
		doctor := cloneDoctor(cached.(entity.Doctor))
		return &doctor, nil
	}

	doctor, err := l.repo.FindByID(ctx, id)
	if err != nil || doctor == nil {
		return doctor, err
	}
	l.cache.Set(doctorCacheKey(id), cloneDoctor(*doctor))
	return doctor, nil
}

// activeDirectory returns the unfiltered list of active doctors
func (l *doctorLookup) activeDirectory(ctx context.Context) ([]entity.Doctor, error) {
	if cached, ok := l.cache.Get(doctorDirectoryKey); ok {
		return cloneDoctors(cached.([]entity.Doctor)), nil
	}

	doctors, err := l.repo.FindAll(ctx, &entity.DoctorFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	l.cache.Set(doctorDirectoryKey, cloneDoctors(doctors))
	return doctors, nil
}

// invalidate drops the doctor record and the directory listing
func (l *doctorLookup) invalidate(id uuid.UUID) {
	l.cache.Invalidate(doctorCacheKey(id), doctorDirectoryKey)
}

func cloneDoctor(d entity.Doctor) entity.Doctor {
	d.AvailableDays = append(entity.StringList(nil), d.AvailableDays...)
	d.AvailableTimes = append(entity.StringList(nil), d.AvailableTimes...)
	if d.IsActive != nil {
		active := *d.IsActive
		d.IsActive = &active
	}
	return d
}

func cloneDoctors(doctors []entity.Doctor) []entity.Doctor {
	out := make([]entity.Doctor, len(doctors))
	for i := range doctors {
		out[i] = cloneDoctor(doctors[i])
	}
	return out
}
